package main

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"typesolve/colors"
	"typesolve/solve"
	"typesolve/typecheck"

	"github.com/gkampitakis/go-snaps/snaps"
)

// describeSolutions renders solve.Solve's status and solutions as plain,
// uncolored text with variable names sorted and no timing line, so a
// snapshot only ever changes when solving behavior actually changes.
func describeSolutions(sys *solve.System, status solve.Status, solutions []solve.Solution) string {
	var out strings.Builder

	fmt.Fprintf(&out, "status: %s\n", status)

	for i, solution := range solutions {
		fmt.Fprintf(&out, "solution %d:\n", i+1)

		names := make([]string, 0, len(sys.TypeVariables))
		rendered := make(map[string]string, len(sys.TypeVariables))
		for _, tv := range sys.TypeVariables {
			name := tv.String()
			names = append(names, name)

			if ty, ok := solution.Bindings[tv.Node]; ok {
				rendered[name] = typecheck.DisplayType(ty, true)
			} else {
				rendered[name] = "unresolved"
			}
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(&out, "  %s: %s\n", name, rendered[name])
		}

		fmt.Fprintf(&out, "  %s\n", solution.Score)
	}

	return out.String()
}

func TestDemos(t *testing.T) {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		scenario := demos[name]

		t.Run(name, func(t *testing.T) {
			colors.WithoutColor(func() {
				sys := scenario.build()
				solutions, status := solve.Solve(sys, solve.DefaultConfig())

				snaps.WithConfig(snaps.Filename(name)).MatchStandaloneSnapshot(t, describeSolutions(sys, status, solutions))
			})
		})
	}
}

func TestFileScenario(t *testing.T) {
	doc := scenarioFile{
		Variables: []string{"x", "y"},
		Constraints: []scenarioConstraint{
			{Kind: "type", Variable: "x", Type: &scenarioType{Name: "Number"}},
			{Kind: "group", Variable: "y", Other: "x"},
		},
	}

	sys, err := doc.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	colors.WithoutColor(func() {
		solutions, status := solve.Solve(sys, solve.DefaultConfig())
		snaps.WithConfig(snaps.Filename("file-scenario")).MatchStandaloneSnapshot(t, describeSolutions(sys, status, solutions))
	})
}

func TestFileScenarioUnknownKind(t *testing.T) {
	doc := scenarioFile{
		Variables:   []string{"x"},
		Constraints: []scenarioConstraint{{Kind: "bogus", Variable: "x"}},
	}

	if _, err := doc.build(); err == nil {
		t.Fatal("expected an error for an unknown constraint kind")
	}
}

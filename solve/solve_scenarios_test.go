package solve

import (
	"fmt"
	"testing"

	"typesolve/database"
	"typesolve/typecheck"

	"github.com/gkampitakis/go-snaps/snaps"
)

// describeForSnapshot renders a Solve result deterministically: sorted
// by node pointer identity isn't stable across runs, so callers pass the
// exact node order they care about.
func describeForSnapshot(status Status, solutions []Solution, order []database.Node, names []string) string {
	s := fmt.Sprintf("status: %s\n", status)

	for i, solution := range solutions {
		s += fmt.Sprintf("solution %d:\n", i+1)

		for j, node := range order {
			if ty, ok := solution.Bindings[node]; ok {
				s += fmt.Sprintf("  %s: %s\n", names[j], typecheck.DisplayType(ty, true))
			} else {
				s += fmt.Sprintf("  %s: unresolved\n", names[j])
			}
		}

		s += fmt.Sprintf("  %s\n", solution.Score)
	}

	return s
}

// S1: a single ground TypeConstraint resolves on the first simplifier
// pass, with no component splitting needed.
func TestScenarioS1GroundConstraint(t *testing.T) {
	_, number := numberTypeForTest()
	a := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{
		typecheck.NewTypeConstraint(a, number),
	}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s1")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{a}, []string{"a"}))
}

// S2: a DefaultConstraint fires once nothing else touches the variable.
func TestScenarioS2LiteralDefault(t *testing.T) {
	_, number := numberTypeForTest()
	n := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{
		typecheck.NewDefaultConstraint(n, number),
	}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s2")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{n}, []string{"n"}))
}

// S3: an overload whose first choice contradicts itself backtracks to
// the second.
func TestScenarioS3OverloadBacktrack(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	f := &database.HiddenNode{Facts: database.EmptyFacts()}

	overload := typecheck.NewOverloadConstraint(f, []typecheck.Overload{
		{Type: text, Requires: []typecheck.Constraint{typecheck.NewTypeConstraint(f, number)}},
		{Type: number, Requires: nil},
	})

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{overload}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s3")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{f}, []string{"f"}))
}

// S4: two constraints sharing no type variable split into independent
// components and merge back into a single cross-product solution.
func TestScenarioS4DisjointComponents(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{
		typecheck.NewTypeConstraint(a, number),
		typecheck.NewTypeConstraint(b, text),
	}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s4")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{a, b}, []string{"a", "b"}))
}

// S5: two ground constraints on the same variable that disagree produce
// no solution.
func TestScenarioS5Contradiction(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{
		typecheck.NewTypeConstraint(a, number),
		typecheck.NewTypeConstraint(a, text),
	}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s5")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{a}, []string{"a"}))
}

// S6: a GroupConstraint ties two variables together before either has a
// concrete type, then a TypeConstraint on one propagates to both.
func TestScenarioS6GroupThenType(t *testing.T) {
	_, number := numberTypeForTest()
	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), []typecheck.Constraint{
		typecheck.NewGroupConstraint(a, b),
		typecheck.NewTypeConstraint(a, number),
	}, nil)

	solutions, status := Solve(sys, DefaultConfig())
	snaps.WithConfig(snaps.Filename("scenario-s6")).MatchStandaloneSnapshot(t, describeForSnapshot(status, solutions, []database.Node{a, b}, []string{"a", "b"}))
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"typesolve/colors"
	"typesolve/solve"
	"typesolve/typecheck"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type Context struct{}

type DemoCmd struct {
	Name  string `arg:"" name:"name" help:"identity, literal-default, overload, or disjoint"`
	Trace bool
}

func (cmd *DemoCmd) Run(ctx *Context) error {
	scenario, ok := demos[cmd.Name]
	if !ok {
		return fmt.Errorf("unknown demo %q (known: identity, literal-default, overload, disjoint)", cmd.Name)
	}

	return runScenario(scenario.build(), cmd.Trace)
}

type FileCmd struct {
	Path  string `arg:"" type:"path"`
	Trace bool
}

func (cmd *FileCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.Path)
	if err != nil {
		return err
	}

	var doc scenarioFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scenario file: %w", err)
	}

	sys, err := doc.build()
	if err != nil {
		return fmt.Errorf("building scenario: %w", err)
	}

	return runScenario(sys, cmd.Trace)
}

var cli struct {
	Demo DemoCmd `cmd:""`
	File FileCmd `cmd:""`
}

func main() {
	godotenv.Load()

	ctx := kong.Parse(&cli)
	err := ctx.Run(&Context{})
	ctx.FatalIfErrorf(err)
}

// config builds a solve.Config from the SOLVE_* environment variables
// godotenv.Load populated, falling back to solve.DefaultConfig for
// anything unset.
func config(trace bool) solve.Config {
	cfg := solve.DefaultConfig()

	if raw := os.Getenv("SOLVE_MAX_STEPS"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.MaxSteps = n
		}
	}

	if raw := os.Getenv("SOLVE_DEADLINE_MS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			deadline := time.Now().Add(time.Duration(n) * time.Millisecond)
			cfg.Deadline = &deadline
		}
	}

	if raw := os.Getenv("SOLVE_RETAIN_ALL"); raw != "" {
		cfg.RetainAllSolutions = raw == "1" || raw == "true"
	}

	if raw := os.Getenv("SOLVE_DISJUNCTION_SHORT_CIRCUIT"); raw != "" {
		cfg.DisjunctionShortCircuit = raw == "1" || raw == "true"
	}

	if raw := os.Getenv("SOLVE_LITERAL_EARLY_EXIT"); raw != "" {
		cfg.LiteralDefaultEarlyExit = raw == "1" || raw == "true"
	}

	if trace {
		cfg.Trace = func(event solve.TraceEvent) {
			fmt.Fprintf(os.Stderr, "%s %s %-7s %s %v -> %v\n",
				colors.Extra(event.RunID), event.StepID, event.Kind, event.Step, event.From, event.To)
		}
	}

	return cfg
}

func runScenario(sys *solve.System, trace bool) error {
	fmt.Fprintf(os.Stderr, "Solving %d constraint(s) over %d variable(s)...", len(sys.Constraints), len(sys.TypeVariables))
	start := time.Now()

	solutions, status := solve.Solve(sys, config(trace))

	duration := time.Since(start)
	fmt.Fprintf(os.Stderr, " %s (%dms)\n", status, duration.Milliseconds())

	if status == solve.StatusUnsolved {
		return fmt.Errorf("no solution found")
	}

	for i, solution := range solutions {
		fmt.Println(colors.Title(fmt.Sprintf("Solution %d:", i+1)))

		for _, tv := range sys.TypeVariables {
			ty, ok := solution.Bindings[tv.Node]
			if !ok {
				fmt.Printf("  %s: %s\n", tv, colors.Conflict("unresolved"))
				continue
			}

			fmt.Printf("  %s: %s\n", tv, colors.Code(typecheck.DisplayType(ty, true)))
		}

		fmt.Println("  " + colors.Extra(solution.Score.String()))
	}

	return nil
}

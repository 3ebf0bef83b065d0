package typecheck

import (
	"fmt"

	"typesolve/database"
)

// DisjunctionChoice is one alternative a DisjunctionConstraint offers:
// committing to it adds Constraints to the solver. IsDefault marks a
// last-resort choice, the same role CSStep.h's shouldShortCircuitAt gives a
// disjunction's "default" term (e.g. falling back to a literal's default
// type): with Config.DisjunctionShortCircuit on, DisjunctionStep skips it
// once an earlier choice has solved. Choices are tried in declared order,
// so a default choice listed before a non-default one is still tried first.
type DisjunctionChoice struct {
	Constraints []Constraint
	IsDefault   bool
	Disabled    bool
}

// DisjunctionConstraint generalizes OverloadConstraint to a set of
// alternative constraint bundles that do not all center on binding one
// node to one type — for instance, choosing between unifying two
// components directly or falling back to a coercion. Like
// OverloadConstraint, it never resolves itself; the solve package's
// DisjunctionStep tries each enabled choice in declared order, forking the
// scope for each attempt (see DisjunctionChoice.IsDefault for when a
// default choice is skipped).
type DisjunctionConstraint struct {
	info    *ConstraintInfo
	Choices []DisjunctionChoice
}

func (c *DisjunctionConstraint) Info() *ConstraintInfo {
	return c.info
}

func (c *DisjunctionConstraint) String() string {
	return fmt.Sprintf("DisjunctionConstraint(%d choices)", len(c.Choices))
}

func (c *DisjunctionConstraint) Instantiate(solver *Solver, source database.Node, replacements map[database.Node]database.Node, substitutions *map[database.Node]Type) Constraint {
	choices := make([]DisjunctionChoice, len(c.Choices))
	for i, choice := range c.Choices {
		constraints := make([]Constraint, len(choice.Constraints))
		for j, constraint := range choice.Constraints {
			constraints[j] = constraint.Instantiate(solver, source, replacements, substitutions)
		}

		choices[i] = DisjunctionChoice{
			Constraints: constraints,
			IsDefault:   choice.IsDefault,
		}
	}

	constraint := NewDisjunctionConstraint(choices)
	constraint.info.Node = source
	return constraint
}

// Run reports no progress so long as an enabled choice remains,
// mirroring OverloadConstraint.Run.
func (c *DisjunctionConstraint) Run(solver *Solver) bool {
	for _, choice := range c.Choices {
		if !choice.Disabled {
			return false
		}
	}

	return true
}

func (c *DisjunctionConstraint) FreeTypeVariables(solver *Solver) []database.Node {
	var free []database.Node
	for _, choice := range c.Choices {
		for _, constraint := range choice.Constraints {
			free = append(free, constraint.FreeTypeVariables(solver)...)
		}
	}

	return free
}

// PruneChoices disables every choice for which disable returns true,
// returning a copy; see OverloadConstraint.PruneOverloads.
func (c *DisjunctionConstraint) PruneChoices(disable func(DisjunctionChoice) bool) *DisjunctionConstraint {
	pruned := &DisjunctionConstraint{
		info:    c.info,
		Choices: make([]DisjunctionChoice, len(c.Choices)),
	}

	copy(pruned.Choices, c.Choices)

	for i, choice := range pruned.Choices {
		if !choice.Disabled && disable(choice) {
			pruned.Choices[i].Disabled = true
		}
	}

	return pruned
}

func NewDisjunctionConstraint(choices []DisjunctionChoice) *DisjunctionConstraint {
	return &DisjunctionConstraint{
		info:    DefaultConstraintInfo(nil),
		Choices: choices,
	}
}

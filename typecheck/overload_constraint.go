package typecheck

import (
	"fmt"

	"typesolve/database"
)

// Overload is one candidate resolution of an OverloadConstraint: Node
// would be bound to Type, provided every constraint in Requires can also
// be solved. Disabled marks a candidate the solve package's
// DisjunctionStep does not try: set by the caller, or by PruneOverloads
// when the candidate disagrees with an overload already resolved for the
// same node.
type Overload struct {
	Type     Type
	Requires []Constraint
	Disabled bool
}

// OverloadConstraint represents a reference that could resolve to any of
// several definitions, such as a name bound by more than one declaration
// in scope. Unlike BoundConstraint, which picks among trait instances by
// running them eagerly, OverloadConstraint never resolves itself: its
// Run always reports no progress, deferring the choice to the solve
// package's DisjunctionStep, which tries each enabled Overload in a
// forked scope and keeps the first one whose Requires constraints solve
// without error. This mirrors CSStep.h's DisjunctionStep trying bound
// overloads outside of the simplifier's normal constraint loop.
type OverloadConstraint struct {
	info      *ConstraintInfo
	Node      database.Node
	Overloads []Overload
}

func (c *OverloadConstraint) Info() *ConstraintInfo {
	return c.info
}

func (c *OverloadConstraint) String() string {
	return fmt.Sprintf("OverloadConstraint(%v, %d overloads)", database.DisplayNode(c.Node), len(c.Overloads))
}

func (c *OverloadConstraint) Instantiate(solver *Solver, source database.Node, replacements map[database.Node]database.Node, substitutions *map[database.Node]Type) Constraint {
	node := GetOrInstantiate(solver, c.Node, source, replacements)

	overloads := make([]Overload, len(c.Overloads))
	for i, overload := range c.Overloads {
		requires := make([]Constraint, len(overload.Requires))
		for j, require := range overload.Requires {
			requires[j] = require.Instantiate(solver, source, replacements, substitutions)
		}

		overloads[i] = Overload{
			Type:     InstantiateType(solver, overload.Type, source, substitutions, replacements),
			Requires: requires,
		}
	}

	constraint := NewOverloadConstraint(node, overloads)
	constraint.info.Node = source
	return constraint
}

// Run never resolves an OverloadConstraint on its own; see the type's
// doc comment. It only reports whether any enabled overload remains, so
// a constraint with every candidate pruned stops being requeued forever.
func (c *OverloadConstraint) Run(solver *Solver) bool {
	for _, overload := range c.Overloads {
		if !overload.Disabled {
			return false
		}
	}

	return true
}

func (c *OverloadConstraint) FreeTypeVariables(solver *Solver) []database.Node {
	free := freeVariablesOf(solver, c.Node)
	for _, overload := range c.Overloads {
		free = append(free, freeVariablesOf(solver, overload.Type)...)
	}

	return free
}

// PruneOverloads disables every candidate for which disable returns
// true, returning a copy of c with those candidates marked. It never
// mutates c in place, since the constraint may still be queued in a
// parent scope that a sibling choice needs unchanged.
func (c *OverloadConstraint) PruneOverloads(disable func(Overload) bool) *OverloadConstraint {
	pruned := &OverloadConstraint{
		info:      c.info,
		Node:      c.Node,
		Overloads: make([]Overload, len(c.Overloads)),
	}

	copy(pruned.Overloads, c.Overloads)

	for i, overload := range pruned.Overloads {
		if !overload.Disabled && disable(overload) {
			pruned.Overloads[i].Disabled = true
		}
	}

	return pruned
}

func NewOverloadConstraint(node database.Node, overloads []Overload) *OverloadConstraint {
	return &OverloadConstraint{
		info:      DefaultConstraintInfo(node),
		Node:      node,
		Overloads: overloads,
	}
}

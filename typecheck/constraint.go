package typecheck

import (
	"fmt"

	"typesolve/database"
)

// Constraint is satisfied by every kind of typing constraint the solver
// simplifier understands. The iterative step machine (package solve)
// treats this as a node of its constraint graph: it finds components
// through FreeTypeVariables, and looks at a Constraint's concrete type
// only to pick out Disjunctive constraints and OverloadConstraint
// choices.
type Constraint interface {
	fmt.Stringer
	Info() *ConstraintInfo
	Instantiate(solver *Solver, source database.Node, replacements map[database.Node]database.Node, substitutions *map[database.Node]Type) Constraint
	Run(solver *Solver) bool

	// FreeTypeVariables returns the nodes this constraint mentions that
	// are still unresolved (have no concrete type yet), after applying
	// the solver's current substitutions. Two constraints sharing a free
	// type variable belong to the same connected component.
	FreeTypeVariables(solver *Solver) []database.Node
}

type ConstraintInfo struct {
	Node              database.Node
	Span              database.Span
	Instance          *Instance
	IsActive          bool
	ShouldInstantiate bool
}

func DefaultConstraintInfo(node database.Node) *ConstraintInfo {
	span := database.NullSpan()
	if node != nil {
		span = database.GetSpanFact(node)
	}

	return &ConstraintInfo{
		Node:              node,
		Span:              span,
		IsActive:          true,
		ShouldInstantiate: true,
	}
}

// freeVariablesOf collects the node leaves of ty that remain unresolved
// under solver's current substitutions. A type that has already been
// applied to a concrete *ConstructedType contributes its children
// instead of itself.
func freeVariablesOf(solver *Solver, ty Type) []database.Node {
	var free []database.Node
	TraverseType(solver.Apply(ty), func(ty Type) (Type, bool) {
		if node, ok := ty.(database.Node); ok {
			free = append(free, node)
		}
		return ty, false
	})
	return free
}

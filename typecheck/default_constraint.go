package typecheck

import (
	"fmt"

	"typesolve/database"
)

// DefaultConstraint assigns ty to node only if node is still unresolved
// when it runs. It sits in the bound tier of constraintOrder, so RunUntil
// runs it only after every group, type and instantiate constraint queued
// in the same pass; RunDefaults additionally fires any that are still
// queued once a pass makes no progress.
type DefaultConstraint struct {
	info *ConstraintInfo
	Type Type
}

func (c *DefaultConstraint) Info() *ConstraintInfo {
	return c.info
}

func (c *DefaultConstraint) String() string {
	return fmt.Sprintf("DefaultConstraint(%v :: %v)", database.DisplayNode(c.info.Node), DisplayType(c.Type, true))
}

func (c *DefaultConstraint) Instantiate(solver *Solver, source database.Node, replacements map[database.Node]database.Node, substitutions *map[database.Node]Type) Constraint {
	node := GetOrInstantiate(solver, c.info.Node, source, replacements)
	ty := InstantiateType(solver, c.Type, source, substitutions, replacements)

	return NewDefaultConstraint(node, ty)
}

func (c *DefaultConstraint) Run(solver *Solver) bool {
	if _, ok := solver.Apply(c.info.Node).(database.Node); ok {
		solver.Unify(c, c.info.Node, c.Type)
	}

	return true
}

func (c *DefaultConstraint) FreeTypeVariables(solver *Solver) []database.Node {
	return append(freeVariablesOf(solver, c.info.Node), freeVariablesOf(solver, c.Type)...)
}

func NewDefaultConstraint(node database.Node, ty Type) *DefaultConstraint {
	return &DefaultConstraint{
		info: DefaultConstraintInfo(node),
		Type: ty,
	}
}

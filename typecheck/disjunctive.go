package typecheck

import "typesolve/database"

// Disjunctive is implemented by every constraint kind the solve
// package's DisjunctionStep can drive: a constraint offering several
// alternative constraint bundles, exactly one of which should end up
// satisfied. OverloadConstraint and DisjunctionConstraint differ in
// what a choice means (bind-a-node-to-a-type vs. an arbitrary bundle)
// but look identical to a step machine that only needs to enumerate,
// disable, and apply choices.
type Disjunctive interface {
	Constraint
	ChoiceCount() int
	ChoiceConstraints(i int) []Constraint
	ChoiceDisabled(i int) bool
	ChoiceIsDefault(i int) bool
}

func (c *OverloadConstraint) ChoiceCount() int {
	return len(c.Overloads)
}

func (c *OverloadConstraint) ChoiceConstraints(i int) []Constraint {
	overload := c.Overloads[i]

	var bind Constraint
	switch ty := overload.Type.(type) {
	case database.Node:
		bind = NewGroupConstraint(c.Node, ty)
	case *ConstructedType:
		bind = NewTypeConstraint(c.Node, ty)
	}

	constraints := make([]Constraint, 0, len(overload.Requires)+1)
	if bind != nil {
		constraints = append(constraints, bind)
	}
	constraints = append(constraints, overload.Requires...)
	return constraints
}

func (c *OverloadConstraint) ChoiceDisabled(i int) bool {
	return c.Overloads[i].Disabled
}

// ChoiceIsDefault is always false for an OverloadConstraint: overload
// resolution has no "fall back to this no matter what" candidate the
// way a literal-default disjunction does.
func (c *OverloadConstraint) ChoiceIsDefault(i int) bool {
	return false
}

func (c *DisjunctionConstraint) ChoiceCount() int {
	return len(c.Choices)
}

func (c *DisjunctionConstraint) ChoiceConstraints(i int) []Constraint {
	return c.Choices[i].Constraints
}

func (c *DisjunctionConstraint) ChoiceDisabled(i int) bool {
	return c.Choices[i].Disabled
}

func (c *DisjunctionConstraint) ChoiceIsDefault(i int) bool {
	return c.Choices[i].IsDefault
}

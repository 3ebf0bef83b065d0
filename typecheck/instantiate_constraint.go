package typecheck

import (
	"typesolve/database"
)

// Instantiation describes one definition's worth of constraints being
// copied for a fresh use site: Definition names the generic declaration,
// Source is the node using it, and Replacements/Substitutions accumulate
// the node-for-node and type-parameter-for-type substitutions as sibling
// constraints instantiate the same definition's free variables.
type Instantiation struct {
	Source        database.Node
	Definition    database.Node
	Replacements  map[database.Node]database.Node
	Substitutions *map[database.Node]Type
	KeepGeneric   bool // used during instance overlap checking
}

type InstantiateConstraint struct {
	info                     *ConstraintInfo
	Instantiation            Instantiation
	GetDefinitionConstraints func(database.Node) []Constraint
}

func (c *InstantiateConstraint) Info() *ConstraintInfo {
	return c.info
}

func (c *InstantiateConstraint) String() string {
	return "InstantiateConstraint(...)"
}

func (c *InstantiateConstraint) Instantiate(solver *Solver, source database.Node, replacements map[database.Node]database.Node, substitutions *map[database.Node]Type) Constraint {
	i := c.Instantiation

	newReplacements := make(map[database.Node]database.Node, len(i.Replacements))
	for node, replacement := range i.Replacements {
		newReplacements[node] = GetOrInstantiate(solver, replacement, source, replacements)
	}

	newSubstitutions := make(map[database.Node]Type, len(*i.Substitutions))
	for node, substitution := range *i.Substitutions {
		newSubstitutions[node] = InstantiateType(solver, substitution, source, substitutions, replacements)
	}

	return NewInstantiateConstraint(Instantiation{
		Source:        source,
		Definition:    i.Definition,
		Replacements:  newReplacements,
		Substitutions: &newSubstitutions,
	}, c.GetDefinitionConstraints)
}

func (c *InstantiateConstraint) Run(solver *Solver) bool {
	// NOTE: Types are *not* applied before instantiating; we have access
	// to all related nodes/constraints here, which together will form
	// better groups.

	i := c.Instantiation
	definitionConstraints := c.GetDefinitionConstraints(i.Definition)

	constraints := make([]Constraint, 0, len(definitionConstraints))
	for _, constraint := range definitionConstraints {
		if !constraint.Info().ShouldInstantiate {
			continue
		}

		if !i.KeepGeneric {
			constraint = constraint.Instantiate(solver, i.Source, i.Replacements, i.Substitutions)
		}

		constraints = append(constraints, constraint)
	}

	solver.Constraints.Add(constraints...)

	return true
}

func (c *InstantiateConstraint) FreeTypeVariables(solver *Solver) []database.Node {
	var free []database.Node
	for _, ty := range *c.Instantiation.Substitutions {
		free = append(free, freeVariablesOf(solver, ty)...)
	}
	return free
}

func NewInstantiateConstraint(i Instantiation, getDefinitionConstraints func(database.Node) []Constraint) *InstantiateConstraint {
	return &InstantiateConstraint{
		info:                     DefaultConstraintInfo(i.Definition),
		Instantiation:            i,
		GetDefinitionConstraints: getDefinitionConstraints,
	}
}

package typecheck

import (
	"reflect"
	"slices"
)

var boundTier = []reflect.Type{reflect.TypeOf((**BoundConstraint)(nil)).Elem(), reflect.TypeOf((**DefaultConstraint)(nil)).Elem()}

// disjunctiveTier holds constraint kinds that never resolve inside the
// typecheck solver's own Run loop (see OverloadConstraint.Run); they sit
// in their own tier so RunUntil dequeues them last and the solve
// package's driver is free to pull them out of the queue entirely and
// drive them through DisjunctionStep instead.
var disjunctiveTier = []reflect.Type{reflect.TypeOf((**OverloadConstraint)(nil)).Elem(), reflect.TypeOf((**DisjunctionConstraint)(nil)).Elem()}

var constraintOrder = []*[]reflect.Type{
	{reflect.TypeOf((**GroupConstraint)(nil)).Elem()},
	{reflect.TypeOf((**TypeConstraint)(nil)).Elem()},
	{reflect.TypeOf((**InstantiateConstraint)(nil)).Elem()},
	&boundTier,
	&disjunctiveTier,
}

type Constraints struct {
	constraints map[*[]reflect.Type][]Constraint
}

func (c *Constraints) Add(constraints ...Constraint) {
	if c.constraints == nil {
		c.constraints = make(map[*[]reflect.Type][]Constraint, len(constraintOrder))
	}

	for _, constraint := range constraints {
		var key *[]reflect.Type
		for _, group := range constraintOrder {
			if slices.Contains(*group, reflect.TypeOf(constraint)) {
				key = group
				break
			}
		}

		if key == nil {
			panic("unknown constraint type")
		}

		if _, ok := c.constraints[key]; !ok {
			c.constraints[key] = []Constraint{}
		}

		c.constraints[key] = append(c.constraints[key], constraint)
	}
}

func (c *Constraints) RunUntil(solver *Solver, stop reflect.Type) {
	expectedConstraints := 0
	for _, constraints := range c.constraints {
		expectedConstraints += len(constraints)
	}

	requeuedConstraints := make([]Constraint, 0, expectedConstraints)
	for {
		constraint, ok := c.dequeue(stop)
		if !ok {
			break
		}

		if constraint.Info().IsActive {
			ok := constraint.Run(solver)
			if !ok {
				requeuedConstraints = append(requeuedConstraints, constraint)
			}
		}
	}

	c.Add(requeuedConstraints...)
}

// RunDefaults fires pending *DefaultConstraint entries once the main pass
// has stalled. Defaults share their tier with BoundConstraint so that
// resolving a trait bound always takes priority over guessing a literal
// default, but the dequeue loop in RunUntil never distinguishes the two by
// type, so this walks the tier's queue directly.
func (c *Constraints) RunDefaults(solver *Solver) {
	constraints, ok := c.constraints[&boundTier]
	if !ok {
		return
	}

	var remaining []Constraint
	var defaults []Constraint
	for _, constraint := range constraints {
		if _, isDefault := constraint.(*DefaultConstraint); isDefault {
			defaults = append(defaults, constraint)
		} else {
			remaining = append(remaining, constraint)
		}
	}

	c.constraints[&boundTier] = remaining

	var requeued []Constraint
	for _, constraint := range defaults {
		if !constraint.Info().IsActive {
			continue
		}

		if !constraint.Run(solver) {
			requeued = append(requeued, constraint)
		} else {
			solver.Progress = true
		}
	}

	c.Add(requeued...)
}

func (c *Constraints) All() []Constraint {
	total := 0
	for _, key := range constraintOrder {
		if constraints, ok := c.constraints[key]; ok {
			total += len(constraints)
		}
	}

	all := make([]Constraint, 0, total)
	for _, key := range constraintOrder {
		if constraints, ok := c.constraints[key]; ok {
			all = append(all, constraints...)
		}
	}

	return all
}

func (c *Constraints) dequeue(stop reflect.Type) (Constraint, bool) {
	for _, key := range constraintOrder {
		if constraints, ok := c.constraints[key]; ok && len(constraints) > 0 {
			constraint := constraints[0]

			if stop != nil && reflect.TypeOf(constraint) == stop {
				return nil, false
			}

			c.constraints[key] = constraints[1:]
			return constraint, true
		}
	}

	return nil, false
}

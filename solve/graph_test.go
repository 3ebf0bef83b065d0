package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func TestConnectedComponentsGroupsSharedVariables(t *testing.T) {
	solver := typecheck.NewSolver(database.NewDb(nil))

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}
	c := &database.HiddenNode{Facts: database.EmptyFacts()}

	ab := typecheck.NewGroupConstraint(a, b)
	bc := typecheck.NewGroupConstraint(b, c)

	graph := NewGraph()
	components := graph.ConnectedComponents(solver, []typecheck.Constraint{ab, bc})

	if len(components) != 1 {
		t.Fatalf("expected a and b and c to land in one component, got %d", len(components))
	}

	if len(components[0].Constraints) != 2 {
		t.Fatalf("expected both constraints in the component, got %v", components[0].Constraints)
	}

	if len(components[0].TypeVariables) != 3 {
		t.Fatalf("expected 3 distinct type variables, got %v", components[0].TypeVariables)
	}
}

func TestConnectedComponentsSplitsUnrelatedVariables(t *testing.T) {
	solver := typecheck.NewSolver(database.NewDb(nil))

	numberDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	number := typecheck.NamedType[typecheck.Type](numberDef, "Number", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}

	constraintA := typecheck.NewTypeConstraint(a, number)
	constraintB := typecheck.NewTypeConstraint(b, number)

	graph := NewGraph()
	components := graph.ConnectedComponents(solver, []typecheck.Constraint{constraintA, constraintB})

	if len(components) != 2 {
		t.Fatalf("expected a and b in separate components, got %d", len(components))
	}
}

func TestConnectedComponentsOrphansGroundConstraints(t *testing.T) {
	solver := typecheck.NewSolver(database.NewDb(nil))

	numberDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	number := typecheck.NamedType[typecheck.Type](numberDef, "Number", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	solver.Unify(nil, a, number)

	ground := typecheck.NewTypeConstraint(a, number)

	graph := NewGraph()
	components := graph.ConnectedComponents(solver, []typecheck.Constraint{ground})

	if len(components) != 0 {
		t.Fatalf("expected a fully-resolved constraint to produce no components, got %d", len(components))
	}

	if len(graph.OrphanedConstraints()) != 1 {
		t.Fatalf("expected the ground constraint to be orphaned, got %v", graph.OrphanedConstraints())
	}
}

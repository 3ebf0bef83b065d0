package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func TestComponentStepSingleSkipsScope(t *testing.T) {
	_, number := numberTypeForTest()
	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	constraint := typecheck.NewTypeConstraint(a, number)

	sys := newTestSystem(constraint)

	step := NewComponentStep(sys, ComponentDescriptor{Constraints: []typecheck.Constraint{constraint}, TypeVariables: []database.Node{a}}, true)
	step.Setup()

	result := step.Take(false)
	if result.Kind != StepSolved {
		t.Fatalf("expected a ground TypeConstraint to solve immediately, got %v", result.Kind)
	}
	if len(step.solutions) != 1 {
		t.Fatalf("expected one captured solution, got %d", len(step.solutions))
	}
	if step.scope != nil {
		t.Fatal("a single-component step should never open a scope")
	}
}

func TestComponentStepContradictionAbandonsScope(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	constraints := []typecheck.Constraint{
		typecheck.NewTypeConstraint(a, number),
		typecheck.NewTypeConstraint(a, text),
	}

	sys := newTestSystem(constraints...)

	step := NewComponentStep(sys, ComponentDescriptor{Constraints: constraints, TypeVariables: []database.Node{a}}, false)
	step.Setup()

	result := step.Take(false)
	if result.Kind != StepError {
		t.Fatalf("expected StepError, got %v", result.Kind)
	}
	if step.scope != nil {
		t.Fatal("scope should have been closed on contradiction")
	}
}

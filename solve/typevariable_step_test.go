package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func TestTypeVariableStepSkipsFailingCandidate(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	n := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem()
	// Ground truth established before any scope opens: n is already Text.
	sys.Solver().Unify(nil, n, text)

	typecheck.AddPotentialBinding(n, number, typecheck.BindingFromSubtype)
	typecheck.AddPotentialBinding(n, text, typecheck.BindingFromSupertype)

	tv := typecheck.NewTypeVariable(n)
	step := NewTypeVariableStep(sys, tv)

	kind, incomplete := NewDriver(sys, *sys.config, step).run()
	if incomplete {
		t.Fatal("did not expect the budget to be exceeded")
	}
	if kind != StepSolved {
		t.Fatalf("expected the Text candidate to succeed after Number failed, got %v", kind)
	}
	if len(step.solutions) != 1 {
		t.Fatalf("expected one solution, got %d", len(step.solutions))
	}
}

func TestTypeVariableStepExhaustionIsError(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	n := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem()
	sys.Solver().Unify(nil, n, text)

	typecheck.AddPotentialBinding(n, number, typecheck.BindingFromSubtype)

	tv := typecheck.NewTypeVariable(n)
	step := NewTypeVariableStep(sys, tv)

	kind, _ := NewDriver(sys, *sys.config, step).run()
	if kind != StepError {
		t.Fatalf("expected every candidate to fail against the Text ground truth, got %v", kind)
	}
	if len(step.solutions) != 0 {
		t.Fatalf("expected no solutions, got %d", len(step.solutions))
	}
}

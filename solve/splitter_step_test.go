package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func numberTypeForTest() (database.Node, *typecheck.ConstructedType) {
	def := &database.HiddenNode{Facts: database.EmptyFacts()}
	return def, typecheck.NamedType[typecheck.Type](def, "Number", nil)
}

func TestSplitterStepSolvesSingleComponent(t *testing.T) {
	_, number := numberTypeForTest()
	a := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem(typecheck.NewTypeConstraint(a, number))

	var solutions []Solution
	root := NewSplitterStep(sys, &solutions)

	kind, incomplete := NewDriver(sys, *sys.config, root).run()

	if incomplete {
		t.Fatal("did not expect the budget to be exceeded")
	}
	if kind != StepSolved {
		t.Fatalf("expected StepSolved, got %v", kind)
	}
	if len(solutions) != 1 {
		t.Fatalf("expected exactly one solution, got %d", len(solutions))
	}
	if _, ok := solutions[0].Bindings[a]; !ok {
		t.Fatalf("expected a solved binding for a, got %+v", solutions[0].Bindings)
	}
}

func TestSplitterStepMergesIndependentComponents(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem(
		typecheck.NewTypeConstraint(a, number),
		typecheck.NewTypeConstraint(b, text),
	)

	var solutions []Solution
	root := NewSplitterStep(sys, &solutions)

	kind, _ := NewDriver(sys, *sys.config, root).run()
	if kind != StepSolved {
		t.Fatalf("expected StepSolved, got %v", kind)
	}
	if len(solutions) != 1 {
		t.Fatalf("expected the two components to merge into one solution, got %d", len(solutions))
	}

	if _, ok := solutions[0].Bindings[a]; !ok {
		t.Fatal("missing binding for a in the merged solution")
	}
	if _, ok := solutions[0].Bindings[b]; !ok {
		t.Fatal("missing binding for b in the merged solution")
	}
}

func TestSplitterStepContradictionIsError(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem(
		typecheck.NewTypeConstraint(a, number),
		typecheck.NewTypeConstraint(a, text),
	)

	var solutions []Solution
	root := NewSplitterStep(sys, &solutions)

	kind, _ := NewDriver(sys, *sys.config, root).run()
	if kind != StepError {
		t.Fatalf("expected StepError for Number vs Text, got %v", kind)
	}
	if len(solutions) != 0 {
		t.Fatalf("expected no solutions, got %d", len(solutions))
	}
}

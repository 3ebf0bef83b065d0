package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func TestDisjunctionStepBacktracksPastFailedChoice(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	f := &database.HiddenNode{Facts: database.EmptyFacts()}

	overload := typecheck.NewOverloadConstraint(f, []typecheck.Overload{
		{Type: text, Requires: []typecheck.Constraint{typecheck.NewTypeConstraint(f, number)}},
		{Type: number, Requires: nil},
	})

	sys := newTestSystem(overload)

	step := NewDisjunctionStep(sys, overload)
	kind, incomplete := NewDriver(sys, *sys.config, step).run()

	if incomplete {
		t.Fatal("did not expect the budget to be exceeded")
	}
	if kind != StepSolved {
		t.Fatalf("expected the Number choice to succeed after Text failed, got %v", kind)
	}
	if len(step.solutions) != 1 {
		t.Fatalf("expected exactly one solution, got %d", len(step.solutions))
	}
	if step.lastSolvedChoice != 1 {
		t.Fatalf("expected choice index 1 (Number) to be the one that solved, got %d", step.lastSolvedChoice)
	}

	applied, ok := sys.Solver().Apply(f).(*typecheck.ConstructedType)
	if !ok || applied.Tag != number.Tag {
		t.Fatalf("expected f committed to Number, got %+v", applied)
	}
}

func TestDisjunctionStepEveryChoiceFailsIsError(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	f := &database.HiddenNode{Facts: database.EmptyFacts()}

	overload := typecheck.NewOverloadConstraint(f, []typecheck.Overload{
		{Type: text, Requires: []typecheck.Constraint{typecheck.NewTypeConstraint(f, number)}},
	})

	sys := newTestSystem(overload)

	step := NewDisjunctionStep(sys, overload)
	kind, _ := NewDriver(sys, *sys.config, step).run()

	if kind != StepError {
		t.Fatalf("expected StepError when the only choice contradicts itself, got %v", kind)
	}
}

func TestDisjunctionStepSkipsDisabledChoice(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	f := &database.HiddenNode{Facts: database.EmptyFacts()}

	overload := typecheck.NewOverloadConstraint(f, []typecheck.Overload{
		{Type: text, Disabled: true},
		{Type: number, Requires: nil},
	})

	sys := newTestSystem(overload)

	step := NewDisjunctionStep(sys, overload)
	kind, _ := NewDriver(sys, *sys.config, step).run()

	if kind != StepSolved {
		t.Fatalf("expected the enabled Number choice to solve, got %v", kind)
	}
	if step.lastSolvedChoice != 1 {
		t.Fatalf("expected the disabled Text choice (index 0) to be skipped, got lastSolvedChoice=%d", step.lastSolvedChoice)
	}
}

// TestPruneOverloadSetDisablesMismatchedDeclaration covers the chained
// operator property directly: once a+b has committed its result node to
// the Number overload, c's own "+" offers the same two declarations
// again, and only the Number candidate should survive construction.
func TestPruneOverloadSetDisablesMismatchedDeclaration(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	result := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem()
	sys.ResolvedOverloads = &ResolvedOverloadSetItem{Node: result, Type: number}

	chained := typecheck.NewOverloadConstraint(result, []typecheck.Overload{
		{Type: text},
		{Type: number},
	})

	step := NewDisjunctionStep(sys, chained)

	if step.constraint.ChoiceDisabled(1) {
		t.Fatal("the matching Number candidate should stay enabled")
	}
	if !step.constraint.ChoiceDisabled(0) {
		t.Fatal("the mismatched Text candidate should have been pruned")
	}
}

// TestDisjunctionStepSkipsDefaultOnceSomethingSolved covers a
// DisjunctionConstraint's IsDefault choice: once an earlier non-default
// choice has solved, the default is a last resort that should never be
// attempted, even though it would also solve if tried.
func TestDisjunctionStepSkipsDefaultOnceSomethingSolved(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	b := &database.HiddenNode{Facts: database.EmptyFacts()}

	disjunction := typecheck.NewDisjunctionConstraint([]typecheck.DisjunctionChoice{
		{Constraints: []typecheck.Constraint{typecheck.NewTypeConstraint(a, number)}},
		{Constraints: []typecheck.Constraint{typecheck.NewTypeConstraint(b, text)}, IsDefault: true},
	})

	sys := newTestSystem(disjunction)

	step := NewDisjunctionStep(sys, disjunction)
	kind, _ := NewDriver(sys, *sys.config, step).run()

	if kind != StepSolved {
		t.Fatalf("expected StepSolved, got %v", kind)
	}
	if len(step.solutions) != 1 {
		t.Fatalf("expected the default choice to be skipped, got %d solutions", len(step.solutions))
	}
	if step.lastSolvedChoice != 0 {
		t.Fatalf("expected the non-default choice (index 0) to be the one solved, got %d", step.lastSolvedChoice)
	}
}

// TestDisjunctionStepChainedOverloadOnlyTriesMatchingChoice is the
// end-to-end version of the same property ("a+b+c" explores at most as
// many choices as a single application, not the product across the
// chain): the mismatched Text candidate is listed first and has no
// Requires, so if pruning did not disable it the driver would solve to
// Text instead of Number.
func TestDisjunctionStepChainedOverloadOnlyTriesMatchingChoice(t *testing.T) {
	_, number := numberTypeForTest()
	textDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	text := typecheck.NamedType[typecheck.Type](textDef, "Text", nil)

	result := &database.HiddenNode{Facts: database.EmptyFacts()}

	sys := newTestSystem()
	sys.ResolvedOverloads = &ResolvedOverloadSetItem{Node: result, Type: number}

	chained := typecheck.NewOverloadConstraint(result, []typecheck.Overload{
		{Type: text},
		{Type: number},
	})
	sys.Constraints = []typecheck.Constraint{chained}

	step := NewDisjunctionStep(sys, chained)
	kind, _ := NewDriver(sys, *sys.config, step).run()

	if kind != StepSolved {
		t.Fatalf("expected StepSolved, got %v", kind)
	}
	if step.lastSolvedChoice != 1 {
		t.Fatalf("expected the Number candidate (index 1) to be the one solved, got %d", step.lastSolvedChoice)
	}

	applied, ok := sys.Solver().Apply(result).(*typecheck.ConstructedType)
	if !ok || applied.Tag != number.Tag {
		t.Fatalf("expected result committed to Number, got %+v", applied)
	}
}

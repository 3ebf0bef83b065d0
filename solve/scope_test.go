package solve

import (
	"testing"

	"typesolve/database"
	"typesolve/typecheck"
)

func newTestSystem(constraints ...typecheck.Constraint) *System {
	sys := NewSystem(typecheck.NewSolver(database.NewDb(nil)), constraints, nil)
	cfg := DefaultConfig()
	sys.config = &cfg
	return sys
}

func TestScopeCloseRestoresActiveConstraints(t *testing.T) {
	node := &database.HiddenNode{Facts: database.EmptyFacts()}
	constraint := typecheck.NewGroupConstraint(node, node)
	sys := newTestSystem(constraint)

	scope := OpenScope(sys)
	scope.Remove(constraint)

	if len(sys.Constraints) != 0 {
		t.Fatalf("Remove did not splice the constraint out: %v", sys.Constraints)
	}

	scope.Close()

	if len(sys.Constraints) != 1 || sys.Constraints[0] != constraint {
		t.Fatalf("Close did not restore the removed constraint: %v", sys.Constraints)
	}
}

func TestScopeCloseDiscardsBindings(t *testing.T) {
	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	sys := newTestSystem()

	scope := OpenScope(sys)
	numberDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	number := typecheck.NamedType[typecheck.Type](numberDef, "Number", nil)
	sys.Solver().Unify(nil, a, number)
	scope.Close()

	if _, ok := sys.Solver().Apply(a).(*typecheck.ConstructedType); ok {
		t.Fatal("Close should have discarded the speculative binding")
	}
}

func TestScopeCommitKeepsBindings(t *testing.T) {
	a := &database.HiddenNode{Facts: database.EmptyFacts()}
	sys := newTestSystem()

	scope := OpenScope(sys)
	numberDef := &database.HiddenNode{Facts: database.EmptyFacts()}
	number := typecheck.NamedType[typecheck.Type](numberDef, "Number", nil)
	sys.Solver().Unify(nil, a, number)
	scope.Commit()

	if _, ok := sys.Solver().Apply(a).(*typecheck.ConstructedType); !ok {
		t.Fatal("Commit should have kept the binding")
	}
}

func TestScopeClosedOutOfOrderPanics(t *testing.T) {
	sys := newTestSystem()

	outer := OpenScope(sys)
	inner := OpenScope(sys)

	defer func() {
		if recover() == nil {
			t.Fatal("expected closing scopes out of LIFO order to panic")
		}
	}()

	outer.Close()
	_ = inner
}

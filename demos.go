package main

import (
	"typesolve/database"
	"typesolve/solve"
	"typesolve/typecheck"
)

// demoNode is a minimal database.Node standing in for a real AST node:
// the built-in demos have no source text to point at, only a label for
// display.
type demoNode struct {
	facts *database.Facts
	label string
}

func newDemoNode(label string) *demoNode {
	node := &demoNode{facts: database.EmptyFacts(), label: label}
	database.SetSpanFact(node, database.Span{Source: label})
	return node
}

func (n *demoNode) GetFacts() *database.Facts {
	return n.facts
}

func (n *demoNode) String() string {
	return n.label
}

// Shared type definitions every demo's ConstructedTypes tag against, so
// two independently built Number types unify (ConstructedType.Tag is
// compared by identity, per typecheck.Solver.unifyConstructedTypes).
var (
	numberDef = newDemoNode("Number")
	textDef   = newDemoNode("Text")
	listDef   = newDemoNode("List")
)

func numberType() *typecheck.ConstructedType {
	return typecheck.NamedType[typecheck.Type](numberDef, "Number", nil)
}

func textType() *typecheck.ConstructedType {
	return typecheck.NamedType[typecheck.Type](textDef, "Text", nil)
}

func listType(element typecheck.Type) *typecheck.ConstructedType {
	return typecheck.NamedType(listDef, "List", []typecheck.Type{element})
}

type demoScenario struct {
	description string
	build       func() *solve.System
}

var demos = map[string]demoScenario{
	"identity": {
		description: "a single type variable related to Number by a subtype constraint",
		build:       buildIdentityDemo,
	},
	"literal-default": {
		description: "a type variable with no real constraint, only a literal default",
		build:       buildLiteralDefaultDemo,
	},
	"overload": {
		description: "an overloaded reference where only one candidate satisfies a side constraint",
		build:       buildOverloadDemo,
	},
	"disjoint": {
		description: "two independent type variables in unrelated constraints, solved as separate components",
		build:       buildDisjointDemo,
	},
}

func newSolver() *typecheck.Solver {
	return typecheck.NewSolver(database.NewDb(nil))
}

// buildIdentityDemo models `x` used where a Number is expected: x's
// PotentialBindings records a single subtype candidate, and a
// TypeConstraint ties it to that candidate directly, so the component
// resolves in its first simplifier pass with no suspension needed.
func buildIdentityDemo() *solve.System {
	solver := newSolver()

	x := newDemoNode("x")
	typecheck.AddPotentialBinding(x, numberType(), typecheck.BindingFromSubtype)

	constraints := []typecheck.Constraint{
		typecheck.NewTypeConstraint(x, numberType()),
	}

	return solve.NewSystem(solver, constraints, []*typecheck.TypeVariable{typecheck.NewTypeVariable(x)})
}

// buildLiteralDefaultDemo models a type variable with nothing
// constraining it but a literal default (e.g. an integer literal with no
// surrounding context): the DefaultConstraint only fires once nothing
// else touching n remains, per default_constraint.go's ordering.
func buildLiteralDefaultDemo() *solve.System {
	solver := newSolver()

	n := newDemoNode("n")
	typecheck.AddPotentialBinding(n, numberType(), typecheck.BindingFromLiteralDefault)

	constraints := []typecheck.Constraint{
		typecheck.NewDefaultConstraint(n, numberType()),
	}

	return solve.NewSystem(solver, constraints, []*typecheck.TypeVariable{typecheck.NewTypeVariable(n)})
}

// buildOverloadDemo models a name resolving to one of two overloads —
// Text or Number — where the Text candidate's Requires constraint
// contradicts the choice it just made (a stand-in for an overload whose
// body turns out to need a different type than its declared one).
// DisjunctionStep tries Text first (declaration order), fails its
// Requires, backtracks, and commits to Number.
func buildOverloadDemo() *solve.System {
	solver := newSolver()

	f := newDemoNode("f")

	overload := typecheck.NewOverloadConstraint(f, []typecheck.Overload{
		{
			Type:     textType(),
			Requires: []typecheck.Constraint{typecheck.NewTypeConstraint(f, numberType())},
		},
		{
			Type:     numberType(),
			Requires: nil,
		},
	})

	constraints := []typecheck.Constraint{overload}

	return solve.NewSystem(solver, constraints, []*typecheck.TypeVariable{typecheck.NewTypeVariable(f)})
}

// buildDisjointDemo relates `a` to Number and `b` to a List of Text through two
// constraints that share no type variable, so SplitterStep partitions
// them into two components and cross-products their (independent,
// single) solutions back together.
func buildDisjointDemo() *solve.System {
	solver := newSolver()

	a := newDemoNode("a")
	b := newDemoNode("b")

	constraints := []typecheck.Constraint{
		typecheck.NewTypeConstraint(a, numberType()),
		typecheck.NewTypeConstraint(b, listType(textType())),
	}

	return solve.NewSystem(solver, constraints, []*typecheck.TypeVariable{
		typecheck.NewTypeVariable(a),
		typecheck.NewTypeVariable(b),
	})
}

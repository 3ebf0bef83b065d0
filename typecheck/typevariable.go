package typecheck

import (
	"fmt"
	"slices"
	"strings"

	"typesolve/database"
)

// BindingSource records why a candidate type was offered for a type
// variable, which in turn decides the order the solve package's
// TypeVariableStep tries candidates in: a binding forced by a subtype
// relationship is always preferred over one guessed from a literal
// default, per the ordering bound_constraint.go already uses to prefer
// regular instances over default ones.
type BindingSource int

const (
	BindingFromSubtype BindingSource = iota
	BindingFromSupertype
	BindingFromLiteralDefault
)

func (source BindingSource) String() string {
	switch source {
	case BindingFromSubtype:
		return "subtype"
	case BindingFromSupertype:
		return "supertype"
	case BindingFromLiteralDefault:
		return "literal default"
	default:
		return "unknown"
	}
}

// Binding is one candidate type offered for a type variable, along with
// the relationship that produced it.
type Binding struct {
	Type   Type
	Source BindingSource
}

// PotentialBindings is the fact attached to a database.Node acting as a
// type variable, recording the ordered set of types the solver has seen
// it related to. It does not itself choose a binding; the solve
// package's TypeVariableStep owns the decision of which candidate (if
// any) to try next, and in what order.
type PotentialBindings struct {
	Node     database.Node
	Bindings []Binding
}

func (fact PotentialBindings) String() string {
	if len(fact.Bindings) == 0 {
		return "has no potential bindings"
	}

	var s strings.Builder
	s.WriteString("has potential bindings ")
	for i, binding := range fact.Bindings {
		if i > 0 {
			s.WriteString(", ")
		}

		s.WriteString(fmt.Sprintf("%s (%s)", DisplayType(binding.Type, true), binding.Source))
	}

	return s.String()
}

// Ordered returns the bindings sorted subtype < supertype < literal
// default, preserving relative order among bindings with the same
// source (a stable sort, so earlier-discovered candidates of equal
// priority are still tried first).
func (fact PotentialBindings) Ordered() []Binding {
	sorted := slices.Clone(fact.Bindings)
	slices.SortStableFunc(sorted, func(left Binding, right Binding) int {
		return int(left.Source) - int(right.Source)
	})

	return sorted
}

// HasLiteralDefault reports whether any candidate binding came from a
// literal default rather than an actual subtype/supertype relationship.
func (fact PotentialBindings) HasLiteralDefault() bool {
	return slices.ContainsFunc(fact.Bindings, func(binding Binding) bool {
		return binding.Source == BindingFromLiteralDefault
	})
}

// AddPotentialBinding records a new candidate type for node, merging it
// into node's existing PotentialBindings fact (or creating one). It does
// not deduplicate by type identity; TypesAreEqual comparisons are left to
// callers that care, since the Source tag can differ between two
// otherwise-identical bindings and both are worth keeping as separate
// explanations for a reader of the trace.
func AddPotentialBinding(node database.Node, ty Type, source BindingSource) {
	fact, _ := database.GetFact[PotentialBindings](node)
	fact.Node = node
	fact.Bindings = append(fact.Bindings, Binding{Type: ty, Source: source})
	database.SetFact(node, fact)
}

// TypeVariable is a thin handle onto a database.Node being used as a
// type variable: the node carries its own PotentialBindings fact, so
// TypeVariable exists only to give the solve package a named type to
// hold instead of a bare database.Node, and to read the node's facts
// through a narrower, purpose-built API.
type TypeVariable struct {
	Node database.Node
}

func NewTypeVariable(node database.Node) *TypeVariable {
	return &TypeVariable{Node: node}
}

func (tv *TypeVariable) String() string {
	return database.DisplayNode(tv.Node)
}

// Bindings returns the node's current PotentialBindings fact (the zero
// value if none has been recorded yet).
func (tv *TypeVariable) Bindings() PotentialBindings {
	fact, _ := database.GetFact[PotentialBindings](tv.Node)
	return fact
}

// Representative returns the canonical node for tv's union-find group
// under solver, i.e. whether (and to what) tv has already been bound.
func (tv *TypeVariable) Representative(solver *Solver) database.Node {
	return solver.Representative(tv.Node)
}

// LiteralDefault returns the type variable's literal-default candidate,
// if it has one — the *ConstructedType offered with BindingFromLiteralDefault,
// which TypeVariableStep only tries once every subtype/supertype
// candidate has been exhausted.
func (tv *TypeVariable) LiteralDefault() (*ConstructedType, bool) {
	for _, binding := range tv.Bindings().Bindings {
		if binding.Source != BindingFromLiteralDefault {
			continue
		}

		if constructed, ok := binding.Type.(*ConstructedType); ok {
			return constructed, true
		}
	}

	return nil, false
}

func (tv *TypeVariable) HasLiteralDefault() bool {
	_, ok := tv.LiteralDefault()
	return ok
}

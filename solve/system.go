package solve

import (
	"typesolve/database"
	"typesolve/typecheck"
)

// ResolvedOverloadSetItem is one entry in the singly linked history of
// overload choices a DisjunctionStep has committed to along the current
// path. It is linked, not a slice, so every in-flight ComponentStep can
// hold the tail it saw at the time it started without copying the whole
// history, and a Solution snapshot just keeps the pointer it had when
// captured.
type ResolvedOverloadSetItem struct {
	Previous *ResolvedOverloadSetItem
	Node     database.Node
	Type     typecheck.Type
}

// Solution is a fully determined assignment captured at the moment a
// ComponentStep or the top-level SplitterStep decides its constraints
// are satisfied: a snapshot of group bindings, the resolved-overload
// history at that point, and the score accumulated to reach it. Once
// captured, a Solution is immutable — nothing in the step machine
// mutates a Solution after constructing it.
type Solution struct {
	Bindings          map[database.Node]*typecheck.ConstructedType
	ResolvedOverloads *ResolvedOverloadSetItem
	Score             Score
}

// System is the shared, explicitly threaded state every Step reads and
// mutates through Simplifier and Graph calls — there are no package
// singletons. Constraints holds the currently active constraint list (as
// opposed to ones already simplified away or spliced out by an open
// Scope); solver is the typecheck.Solver currently backing Simplifier,
// swapped to a forked copy whenever a Scope is open.
type System struct {
	Constraints       []typecheck.Constraint
	Graph             Graph
	TypeVariables     []*typecheck.TypeVariable
	Score             Score
	ResolvedOverloads *ResolvedOverloadSetItem
	Simplifier        Simplifier

	solver *typecheck.Solver
	scopes scopeStack
	config *Config
}

// Config returns the Config this system is solving under. Solve sets it
// before building the root SplitterStep; every nested SplitterStep reads
// it back through the same System pointer rather than a copy, so a
// config knob always reflects what the caller of Solve asked for.
func (sys *System) Config() *Config {
	return sys.config
}

// NewSystem builds a System backed by solver, with the default
// union-find Graph and the typecheck.Solver-backed Simplifier adapter.
func NewSystem(solver *typecheck.Solver, constraints []typecheck.Constraint, typeVariables []*typecheck.TypeVariable) *System {
	return &System{
		Constraints:   constraints,
		Graph:         NewGraph(),
		TypeVariables: typeVariables,
		Simplifier:    NewSolverSimplifier(),
		solver:        solver,
	}
}

// Solver exposes the current solver (the base one, or a Scope's fork if
// one is open) to the Simplifier adapter. Nothing outside solve/
// should call it — it exists because Simplifier implementations live in
// the same package, not because System's solver is public API.
func (sys *System) Solver() *typecheck.Solver {
	return sys.solver
}

// removeActive splices constraints out of sys.Constraints, returning the
// constraints that were actually present (in their original relative
// order) so a Scope can restore exactly what it removed.
func (sys *System) removeActive(constraints []typecheck.Constraint) []typecheck.Constraint {
	removed := make([]typecheck.Constraint, 0, len(constraints))

	remaining := make([]typecheck.Constraint, 0, len(sys.Constraints))
	for _, existing := range sys.Constraints {
		drop := false
		for _, constraint := range constraints {
			if existing == constraint {
				drop = true
				break
			}
		}

		if drop {
			removed = append(removed, existing)
		} else {
			remaining = append(remaining, existing)
		}
	}

	sys.Constraints = remaining
	return removed
}

// restoreActive appends constraints back onto the active list. Order
// relative to constraints added after the removal is not preserved —
// only that every removed constraint becomes active again, matching the
// source's restore-on-destruction semantics rather than a strict
// positional splice-back.
func (sys *System) restoreActive(constraints []typecheck.Constraint) {
	sys.Constraints = append(sys.Constraints, constraints...)
}

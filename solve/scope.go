package solve

import (
	"slices"

	"typesolve/typecheck"
)

// scopeStack tracks how many Scopes are open system-wide so Close can
// assert strict LIFO nesting: a scope may only close once every scope
// opened after it has already closed.
type scopeStack struct {
	depth int
}

func (s *scopeStack) push() int {
	s.depth++
	return s.depth
}

func (s *scopeStack) pop(depth int) {
	invariant(depth == s.depth, "scope closed out of order: closing depth %d, current depth %d", depth, s.depth)
	s.depth--
}

// Scope is a snapshot of mutation-sensitive solver state opened by a
// step before it tries a speculative binding, overload choice, or
// component split. Close always rewinds every mutation made since Open
// — a step that wants to keep something it learned inside a Scope must
// copy it into an immutable Solution (or, for overload resolution, into
// ResolvedOverloadSetItem) before calling Close, never rely on the
// mutation surviving.
type Scope struct {
	sys        *System
	checkpoint typecheck.Checkpoint
	previous   *typecheck.Solver
	removed    []typecheck.Constraint
	depth      int
	closed     bool

	score             Score
	resolvedOverloads *ResolvedOverloadSetItem
	constraints       []typecheck.Constraint
}

// OpenScope opens a nested solver checkpoint and records sys's current
// scope-stack depth. It does not by itself remove any constraints from
// the active list — call Remove for that. It also snapshots sys.Score,
// sys.ResolvedOverloads and the active constraint list, the other
// mutation-sensitive fields a step can touch while the scope is open;
// Close restores them exactly like the solver checkpoint, Commit leaves
// the score and resolved overloads as the scope left them.
func OpenScope(sys *System) *Scope {
	checkpoint := sys.Simplifier.OpenCheckpoint(sys)

	scope := &Scope{
		sys:               sys,
		checkpoint:        checkpoint,
		previous:          sys.solver,
		depth:             sys.scopes.push(),
		score:             sys.Score,
		resolvedOverloads: sys.ResolvedOverloads,
		constraints:       slices.Clone(sys.Constraints),
	}

	sys.solver = checkpoint.Solver()

	return scope
}

// Remove splices constraints out of the system's active list for the
// duration of this scope. They are spliced back in, unconditionally, on
// Close — callers that want to keep a constraint removed permanently
// (for instance, a DisjunctionStep's resolved disjunction) must re-remove
// it again after Close, in the parent scope.
func (scope *Scope) Remove(constraints ...typecheck.Constraint) {
	removed := scope.sys.removeActive(constraints)
	scope.removed = append(scope.removed, removed...)
}

// Close rewinds every mutation this scope's fork accumulated and
// restores the active constraint list as it was at OpenScope, dropping
// any constraint added while the scope was open. It panics if scopes were not
// closed in strict LIFO order, or if called twice on the same Scope.
func (scope *Scope) Close() {
	invariant(!scope.closed, "scope closed twice")
	scope.closed = true

	scope.sys.scopes.pop(scope.depth)
	scope.sys.solver = scope.previous
	scope.sys.Constraints = scope.constraints
	scope.sys.Score = scope.score
	scope.sys.ResolvedOverloads = scope.resolvedOverloads
}

// Commit folds the scope's fork back into the solver that opened it,
// keeping every binding, score change and resolved overload made inside
// the scope, and then splices back the constraints Remove took out;
// constraints added to the active list while the scope was open stay.
// Used by ComponentStep once it has decided a component's solution is
// final, and by TypeVariableStep and DisjunctionStep for an attempt that
// produced a solution.
func (scope *Scope) Commit() {
	invariant(!scope.closed, "scope closed twice")
	scope.closed = true

	scope.checkpoint.Commit()
	scope.sys.scopes.pop(scope.depth)
	scope.sys.solver = scope.previous
	scope.sys.restoreActive(scope.removed)
}

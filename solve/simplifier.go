package solve

import (
	"typesolve/database"
	"typesolve/typecheck"
)

// SimplifyResult is what a single Simplifier.SimplifyAll pass reports
// back to a ComponentStep. Contradiction means a unification failed
// outright, which always ends the component in StepError regardless of
// what Remaining holds; Remaining lists the constraints still unresolved.
type SimplifyResult struct {
	Contradiction bool
	Remaining     []typecheck.Constraint
}

// Simplifier is the constraint-reduction collaborator the step machine
// treats as an opaque external dependency (see SPEC_FULL §6): it is the
// only thing in solve/ that runs typecheck constraints against the
// solver.
type Simplifier interface {
	SimplifyAll(sys *System, constraints []typecheck.Constraint) SimplifyResult
	ApplyBinding(sys *System, tv *typecheck.TypeVariable, ty typecheck.Type, source typecheck.BindingSource) bool
	ApplyChoice(sys *System, constraints []typecheck.Constraint) bool
	OpenCheckpoint(sys *System) typecheck.Checkpoint
}

// solverSimplifier is the default Simplifier: an adapter over
// typecheck.Solver. It does not hold its own solver pointer — every
// call reaches through sys.Solver(), which a Scope may have swapped to
// a forked copy since the last call.
type solverSimplifier struct{}

// NewSolverSimplifier returns the typecheck.Solver-backed Simplifier.
func NewSolverSimplifier() Simplifier {
	return &solverSimplifier{}
}

func (solverSimplifier) SimplifyAll(sys *System, constraints []typecheck.Constraint) SimplifyResult {
	solver := sys.Solver()

	solver.Constraints = typecheck.Constraints{}
	solver.Constraints.Add(constraints...)
	solver.Error = false

	solver.Run()

	remaining := solver.Constraints.All()

	return SimplifyResult{
		Contradiction: solver.Error,
		Remaining:     remaining,
	}
}

// ApplyBinding unifies tv with ty and, on success, adjusts sys.Score for
// how speculative source was: a direct subtype binding costs nothing, a
// supertype (widening) fallback costs a TypeVariableDefaults point, and
// a literal-default binding costs a Literals point. A failed
// unification leaves the score untouched; the caller's enclosing Scope
// discards the rest of the attempt anyway.
func (solverSimplifier) ApplyBinding(sys *System, tv *typecheck.TypeVariable, ty typecheck.Type, source typecheck.BindingSource) bool {
	solver := sys.Solver()

	solver.Error = false
	solver.Unify(nil, tv.Node, ty)

	if solver.Error {
		return false
	}

	switch source {
	case typecheck.BindingFromSupertype:
		sys.Score = sys.Score.Add(Score{TypeVariableDefaults: 1})
	case typecheck.BindingFromLiteralDefault:
		sys.Score = sys.Score.Add(Score{Literals: 1})
	}

	return true
}

// ApplyChoice feeds a chosen disjunction or overload branch's
// constraints into the active set for the next simplifier pass — the
// same deferred-resolution pattern every other choice constraint goes
// through, so choice application always flows through one path instead
// of DisjunctionStep reaching into sys.Constraints directly.
func (solverSimplifier) ApplyChoice(sys *System, constraints []typecheck.Constraint) bool {
	sys.Constraints = append(sys.Constraints, constraints...)
	return true
}

func (solverSimplifier) OpenCheckpoint(sys *System) typecheck.Checkpoint {
	return typecheck.OpenCheckpoint(sys.Solver())
}

// snapshotSolution captures sys's current solver bindings (applied, so
// every group's representative type is fully substituted) into an
// immutable Solution, tagged with the score and resolved-overload
// history sys holds at the moment of the call.
func snapshotSolution(sys *System) Solution {
	solver := sys.Solver()

	bindings := map[database.Node]*typecheck.ConstructedType{}
	for _, group := range solver.Groups(func(database.Node) int { return 0 }) {
		if len(group.Types) == 0 {
			continue
		}

		applied, ok := solver.Apply(group.Types[0]).(*typecheck.ConstructedType)
		if !ok {
			continue
		}

		for _, node := range group.Nodes {
			bindings[node] = applied
		}
	}

	return Solution{
		Bindings:          bindings,
		ResolvedOverloads: sys.ResolvedOverloads,
		Score:             sys.Score,
	}
}

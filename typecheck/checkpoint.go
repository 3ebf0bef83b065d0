package typecheck

// Checkpoint is the nested solver-scope token a solve.Scope holds open
// while a step machine tries a speculative binding or choice. It wraps a
// forked Solver: every mutation made by the code between OpenCheckpoint
// and Close happens on the fork, never on the solver that opened it.
type Checkpoint struct {
	base *Solver
	fork *Solver
}

// OpenCheckpoint forks solver, returning a Checkpoint whose Solver method
// gives speculative work somewhere to run.
func OpenCheckpoint(solver *Solver) Checkpoint {
	return Checkpoint{base: solver, fork: solver.Fork()}
}

// Solver returns the forked solver speculative work should run against.
func (cp Checkpoint) Solver() *Solver {
	return cp.fork
}

// Commit folds the fork's accumulated bindings back into the solver that
// opened this checkpoint. Call it only when the speculative work is being
// kept permanently (never from a Scope.Close, which always discards).
func (cp Checkpoint) Commit() {
	cp.base.Commit(cp.fork)
}

package solve

import (
	"typesolve/database"
	"typesolve/typecheck"
)

// SplitterStep partitions the system's active constraints into
// independently solvable components, solves each with its own
// ComponentStep, and merges the per-component solutions back into a
// cross product. It is also how TypeVariableStep re-enters the machine
// after a binding, since binding a variable can reshape which
// constraints share a free variable.
type SplitterStep struct {
	sys       *System
	solutions *[]Solution

	state      StepState
	components []ComponentDescriptor
	orphans    []typecheck.Constraint
	steps      []*ComponentStep
	single     bool
}

// NewSplitterStep builds a SplitterStep that appends every solution it
// finds to solutions.
func NewSplitterStep(sys *System, solutions *[]Solution) *SplitterStep {
	return &SplitterStep{sys: sys, solutions: solutions, state: StepSetup}
}

func (s *SplitterStep) String() string {
	return "SplitterStep"
}

func (s *SplitterStep) State() StepState {
	return s.state
}

func (s *SplitterStep) Setup() {
	s.components = s.sys.Graph.ConnectedComponents(s.sys.Solver(), s.sys.Constraints)
	s.orphans = s.sys.Graph.OrphanedConstraints()
	s.single = len(s.components) == 1 && len(s.orphans) == 0

	transition(StepSetup, StepReady)
	s.state = StepReady
}

func (s *SplitterStep) Take(prevFailed bool) StepResult {
	transition(StepReady, StepRunning)

	if len(s.components) == 0 {
		// Nothing left to split: either every constraint was orphaned
		// (already ground) or there were no constraints at all. Either
		// way there is exactly one "solution", subject to the orphans
		// actually being consistent.
		result := s.sys.Simplifier.SimplifyAll(s.sys, s.orphans)
		if result.Contradiction {
			transition(StepRunning, StepDone)
			s.state = StepDone
			return StepResult{Kind: StepError}
		}

		*s.solutions = append(*s.solutions, snapshotSolution(s.sys))

		transition(StepRunning, StepDone)
		s.state = StepDone
		return StepResult{Kind: StepSolved}
	}

	s.steps = make([]*ComponentStep, len(s.components))
	followups := make([]Step, len(s.components))
	for i, component := range s.components {
		step := NewComponentStep(s.sys, component, s.single)
		s.steps[i] = step
		followups[i] = step
	}

	transition(StepRunning, StepSuspended)
	s.state = StepSuspended

	return StepResult{Kind: StepUnsolved, Followups: followups}
}

func (s *SplitterStep) Resume(prevFailed bool) StepResult {
	transition(StepSuspended, StepRunning)

	for _, step := range s.steps {
		if len(step.solutions) == 0 {
			transition(StepRunning, StepDone)
			s.state = StepDone
			return StepResult{Kind: StepError}
		}
	}

	merged := []Solution{{
		Bindings:          map[database.Node]*typecheck.ConstructedType{},
		ResolvedOverloads: s.sys.ResolvedOverloads,
		Score:             s.sys.Score,
	}}

	for _, step := range s.steps {
		var next []Solution
		for _, prefix := range merged {
			for _, candidate := range step.solutions {
				next = append(next, mergeSolutions(prefix, candidate))
			}
		}
		merged = next
	}

	survivors := merged[:0]
	for _, candidate := range merged {
		if s.orphansContradict(candidate) {
			continue
		}

		survivors = append(survivors, candidate)
	}

	if !s.sys.Config().RetainAllSolutions {
		survivors = filterSolutions(survivors, s.sys.Config().NearMinimumSlack)
	}

	*s.solutions = append(*s.solutions, survivors...)

	transition(StepRunning, StepDone)
	s.state = StepDone

	if len(survivors) == 0 {
		return StepResult{Kind: StepError}
	}

	return StepResult{Kind: StepSolved}
}

// orphansContradict applies candidate's own bindings in a forked scope
// and checks whether the orphaned constraints (already free of type
// variables, per Graph.ConnectedComponents) still simplify without
// contradiction under that specific assignment, per §4.2's "discard
// tuples contradicting orphans" — then always discards the fork, since
// this is a validation pass, never a commit.
func (s *SplitterStep) orphansContradict(candidate Solution) bool {
	scope := OpenScope(s.sys)
	defer scope.Close()

	solver := s.sys.Solver()
	for node, ty := range candidate.Bindings {
		solver.Unify(nil, node, ty)
	}

	return s.sys.Simplifier.SimplifyAll(s.sys, s.orphans).Contradiction
}

// mergeSolutions unions two solutions' bindings (right wins on key
// collision, which never happens between distinct components by
// construction) and sums their scores.
func mergeSolutions(left Solution, right Solution) Solution {
	bindings := make(map[database.Node]*typecheck.ConstructedType, len(left.Bindings)+len(right.Bindings))
	for node, ty := range left.Bindings {
		bindings[node] = ty
	}
	for node, ty := range right.Bindings {
		bindings[node] = ty
	}

	resolved := right.ResolvedOverloads
	if resolved == nil {
		resolved = left.ResolvedOverloads
	}

	return Solution{
		Bindings:          bindings,
		ResolvedOverloads: resolved,
		Score:             left.Score.Add(right.Score),
	}
}

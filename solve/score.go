package solve

import "fmt"

// Score is a totally ordered tuple ranking a Solution: an unavailable
// overload used ranks worse than a fix, which ranks worse than falling
// back to a type-variable default, which ranks worse than an inferred
// generic, which ranks worse than a literal default. Lower is always
// better, and a Score only ever grows as steps accumulate it — see Add.
// This repurposes the teacher's ConstraintInfo/Instance.Default boolean
// gates as counted score components instead of pass/fail signals.
type Score struct {
	Unavailable          int
	Fixes                int
	TypeVariableDefaults int
	Generics             int
	Literals             int
}

func (score Score) String() string {
	return fmt.Sprintf(
		"Score{Unavailable: %d, Fixes: %d, TypeVariableDefaults: %d, Generics: %d, Literals: %d}",
		score.Unavailable, score.Fixes, score.TypeVariableDefaults, score.Generics, score.Literals,
	)
}

// Add accumulates delta's components onto score, returning the sum. It
// never subtracts: a Score only ever increases as a solve path
// progresses, which is what makes filterSolutions's pruning sound — a
// path that is already worse than another on a prefix of the tuple can
// never catch up.
func (score Score) Add(delta Score) Score {
	return Score{
		Unavailable:          score.Unavailable + delta.Unavailable,
		Fixes:                score.Fixes + delta.Fixes,
		TypeVariableDefaults: score.TypeVariableDefaults + delta.TypeVariableDefaults,
		Generics:             score.Generics + delta.Generics,
		Literals:             score.Literals + delta.Literals,
	}
}

// Compare orders scores lexicographically by component, in the order
// they're declared: Unavailable first, Literals last. It returns a
// negative number if score ranks better than other, zero if they rank
// equally, and a positive number if score ranks worse.
func (score Score) Compare(other Score) int {
	if d := score.Unavailable - other.Unavailable; d != 0 {
		return d
	}
	if d := score.Fixes - other.Fixes; d != 0 {
		return d
	}
	if d := score.TypeVariableDefaults - other.TypeVariableDefaults; d != 0 {
		return d
	}
	if d := score.Generics - other.Generics; d != 0 {
		return d
	}
	return score.Literals - other.Literals
}

// exceeds reports whether score is worse than best by more than slack in
// any component considered so far in Compare's lexicographic order —
// used by filterSolutions to decide whether a near-minimum solution
// still survives under Config.NearMinimumSlack.
func (score Score) exceeds(best Score, slack Score) bool {
	return score.Compare(best.Add(slack)) > 0
}

// FilterPolicy ranks and prunes a batch of solutions. The step machine
// only requires whatever is plugged in to be stable (solutions that
// compare equal keep their relative order) and monotone (removing a
// solution from consideration never later un-removes it as more
// solutions arrive) — it never inspects the policy's internals.
type FilterPolicy func(solutions []Solution, slack Score) []Solution

// filterSolutions is the default FilterPolicy: keep every solution whose
// Score is within slack of the best (minimum) Score seen, preserving the
// incoming order among survivors (a stable sort by Score followed by a
// slack cutoff would also work, but comparing directly against the
// minimum makes the monotonicity property obvious by construction).
func filterSolutions(solutions []Solution, slack Score) []Solution {
	if len(solutions) == 0 {
		return solutions
	}

	best := solutions[0].Score
	for _, solution := range solutions[1:] {
		if solution.Score.Compare(best) < 0 {
			best = solution.Score
		}
	}

	survivors := make([]Solution, 0, len(solutions))
	for _, solution := range solutions {
		if !solution.Score.exceeds(best, slack) {
			survivors = append(survivors, solution)
		}
	}

	return survivors
}

package solve

import (
	"fmt"

	"typesolve/typecheck"
)

// DisjunctionStep tries a disjunctive constraint's choices in order,
// skipping disabled ones, and — when Config.DisjunctionShortCircuit is
// set — stops early once a non-generic choice has solved and every
// choice still ahead is either a generic overload candidate or a
// default fallback, neither of which is ever worth trying once
// something better has already solved. With short-circuiting off, every
// enabled choice runs and every solution survives to be ranked later by
// Score. It mirrors the teacher's bound_constraint.go
// candidate-pruning loop, generalized from "try each bound instance" to
// "try each disjunct".
type DisjunctionStep struct {
	sys        *System
	original   typecheck.Disjunctive
	constraint typecheck.Disjunctive

	state  StepState
	cursor int
	scope  *Scope

	lastSolvedChoice    int
	bestNonGenericScore *Score

	pending   []Solution
	solutions []Solution
}

// NewDisjunctionStep builds a step that tries constraint's choices in
// order. original is removed from the system's active list for each
// attempt (restored on that attempt's scope Close/Commit),
// since its job here is to pick one choice and replace itself with that
// choice's constraints, not to be re-simplified as-is — this must stay
// the exact instance the caller's active list holds, since removeActive
// matches by identity, so it is kept distinct from constraint even
// though pruning usually leaves them equal. Before anything else,
// constraint is pruned against sys.ResolvedOverloads: a chained operator
// like a+b+c builds one OverloadConstraint per application, all sharing
// the same result node through unification once a+b has picked a
// representative, so c's own choice set should never re-explore a
// declaration that disagrees with what's already resolved for that
// node.
func NewDisjunctionStep(sys *System, constraint typecheck.Disjunctive) *DisjunctionStep {
	pruned := pruneOverloadSet(sys, constraint)
	return &DisjunctionStep{sys: sys, original: constraint, constraint: pruned, state: StepSetup, lastSolvedChoice: -1}
}

// pruneOverloadSet disables every OverloadConstraint candidate whose
// declared Type disagrees with a previously resolved overload on the
// same representative node — the S3 chained-overload property ("a+b+c"
// explores at most as many choices as one application, not the product
// across the chain). DisjunctionConstraint passes through unchanged:
// its choices are arbitrary constraint bundles, not declarations bound
// to a shared node, so there is no equivalence class to prune against.
func pruneOverloadSet(sys *System, constraint typecheck.Disjunctive) typecheck.Disjunctive {
	overload, ok := constraint.(*typecheck.OverloadConstraint)
	if !ok {
		return constraint
	}

	representative := sys.Solver().Representative(overload.Node)

	for item := sys.ResolvedOverloads; item != nil; item = item.Previous {
		if sys.Solver().Representative(item.Node) != representative {
			continue
		}

		resolved := item.Type
		return overload.PruneOverloads(func(candidate typecheck.Overload) bool {
			return !typecheck.TypesAreEqual(candidate.Type, resolved)
		})
	}

	return overload
}

// isGenericOverloadChoice reports whether choice i of constraint binds
// its node to another, still-open type variable (an Overload whose Type
// is a database.Node, per OverloadConstraint.ChoiceConstraints) rather
// than a concrete ConstructedType. A DisjunctionConstraint's choices
// have no such distinction and are never generic.
func isGenericOverloadChoice(constraint typecheck.Disjunctive, i int) bool {
	overload, ok := constraint.(*typecheck.OverloadConstraint)
	if !ok {
		return false
	}

	_, isConcrete := overload.Overloads[i].Type.(*typecheck.ConstructedType)
	return !isConcrete
}

func (d *DisjunctionStep) String() string {
	return fmt.Sprintf("DisjunctionStep(%s)", d.constraint)
}

func (d *DisjunctionStep) State() StepState {
	return d.state
}

func (d *DisjunctionStep) Setup() {
	transition(StepSetup, StepReady)
	d.state = StepReady
}

func (d *DisjunctionStep) collectedSolutions() []Solution {
	return d.solutions
}

// abandon closes this step's held scope without recording a solution,
// for the Driver's budget-exceeded unwind path.
func (d *DisjunctionStep) abandon() {
	if d.scope != nil {
		d.scope.Close()
		d.scope = nil
	}
}

func (d *DisjunctionStep) Take(prevFailed bool) StepResult {
	transition(StepReady, StepRunning)
	return d.attemptNext()
}

func (d *DisjunctionStep) Resume(prevFailed bool) StepResult {
	transition(StepSuspended, StepRunning)

	solvedThisChoice := len(d.pending) > 0
	attempted := d.cursor - 1

	if solvedThisChoice {
		d.solutions = append(d.solutions, d.pending...)
		d.pending = nil
		d.lastSolvedChoice = attempted
		d.recordResolvedOverload(attempted)

		if !isGenericOverloadChoice(d.constraint, attempted) {
			score := d.sys.Score
			if d.bestNonGenericScore == nil || score.Compare(*d.bestNonGenericScore) < 0 {
				d.bestNonGenericScore = &score
			}
		}

		d.scope.Commit()
	} else {
		d.scope.Close()
	}
	d.scope = nil

	if d.shouldShortCircuitAt(d.cursor) {
		return d.finish()
	}

	return d.attemptNext()
}

// shouldSkipChoice reports whether choice i should be skipped outright.
// Both halves below are gated by Config.DisjunctionShortCircuit, since
// both trade completeness (collecting every solution) for speed — with
// it off, RetainAllSolutions callers still get a default choice's
// solution alongside the others, even once a non-default has already
// solved. With it on: a default choice (ChoiceIsDefault) is a last
// resort per its own doc comment, so once lastSolvedChoice shows
// anything has already solved, a default is never worth attempting.
// Likewise, once a non-generic choice has already solved, trying a
// generic one (binding the node to another open variable rather than a
// concrete declaration) can only add a Generics penalty with no
// prospect of outscoring what's already found.
func (d *DisjunctionStep) shouldSkipChoice(i int) bool {
	if !d.sys.Config().DisjunctionShortCircuit {
		return false
	}

	if d.lastSolvedChoice >= 0 && d.constraint.ChoiceIsDefault(i) {
		return true
	}

	return d.bestNonGenericScore != nil && isGenericOverloadChoice(d.constraint, i)
}

// shouldShortCircuitAt reports whether it is safe to stop exploring
// once a non-generic choice has solved: true only if every remaining
// enabled choice from index from onward is generic, i.e. would be
// skipped by shouldSkipChoice anyway. This is the conservative half of
// §4.5's score-based early exit — it never abandons a choice that could
// still legitimately outscore bestNonGenericScore. Gated by
// Config.DisjunctionShortCircuit: invariants 1-7 never depend on this
// running, only on it being safe when it does.
func (d *DisjunctionStep) shouldShortCircuitAt(from int) bool {
	if !d.sys.Config().DisjunctionShortCircuit || d.bestNonGenericScore == nil {
		return false
	}

	for i := from; i < d.constraint.ChoiceCount(); i++ {
		if d.constraint.ChoiceDisabled(i) {
			continue
		}

		if !isGenericOverloadChoice(d.constraint, i) {
			return false
		}
	}

	return true
}

// recordResolvedOverload appends the just-committed choice's
// declaration to sys.ResolvedOverloads, growing the history
// pruneOverloadSet consults for every later OverloadConstraint on the
// same representative node. DisjunctionConstraint choices have no
// node/type pair to record.
func (d *DisjunctionStep) recordResolvedOverload(i int) {
	overload, ok := d.constraint.(*typecheck.OverloadConstraint)
	if !ok {
		return
	}

	d.sys.ResolvedOverloads = &ResolvedOverloadSetItem{
		Previous: d.sys.ResolvedOverloads,
		Node:     overload.Node,
		Type:     overload.Overloads[i].Type,
	}
}

// attemptNext scans forward from the cursor for the next enabled,
// not-skipped choice, opens a scope that removes the disjunctive
// constraint from the active list for the duration of the attempt,
// charges a Generics point for a generic overload choice, applies the
// choice's constraints through the Simplifier (Resume records the
// resolved overload once the attempt solves), and suspends on a nested SplitterStep to drive the
// choice's own constraints to completion. Destructor order matters here
// exactly as it does in the teacher's RAII scopes: the per-choice scope
// (and the constraint-removal it holds) must rewind before the loop
// tries the next choice, which attemptNext's scope.Close()/Commit() in
// Resume already guarantees by construction.
func (d *DisjunctionStep) attemptNext() StepResult {
	for d.cursor < d.constraint.ChoiceCount() {
		i := d.cursor
		d.cursor++

		if d.constraint.ChoiceDisabled(i) || d.shouldSkipChoice(i) {
			continue
		}

		scope := OpenScope(d.sys)
		scope.Remove(d.original)

		if isGenericOverloadChoice(d.constraint, i) {
			d.sys.Score = d.sys.Score.Add(Score{Generics: 1})
		}

		if !d.sys.Simplifier.ApplyChoice(d.sys, d.constraint.ChoiceConstraints(i)) {
			scope.Close()
			continue
		}

		d.scope = scope
		d.pending = nil

		transition(StepRunning, StepSuspended)
		d.state = StepSuspended

		return StepResult{Kind: StepUnsolved, Followups: []Step{NewSplitterStep(d.sys, &d.pending)}}
	}

	return d.finish()
}

func (d *DisjunctionStep) finish() StepResult {
	transition(StepRunning, StepDone)
	d.state = StepDone

	if len(d.solutions) == 0 {
		return StepResult{Kind: StepError}
	}

	return StepResult{Kind: StepSolved}
}

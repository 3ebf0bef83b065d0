package solve

import (
	"fmt"

	"typesolve/typecheck"
)

// ComponentStep drives one connected component of the constraint graph
// to a solution: it runs the simplifier once, and if that leaves work
// behind, picks the single highest-precedence unit of remaining work
// (a disjunction before a type variable) and suspends on it.
type ComponentStep struct {
	sys       *System
	component ComponentDescriptor
	single    bool

	state     StepState
	scope     *Scope
	solutions []Solution
	remaining []typecheck.Constraint
	retrying  bool
	followup  Step
}

// solutionSource is implemented by every Step that accumulates Solutions
// internally across several suspend/resume cycles (TypeVariableStep,
// DisjunctionStep) rather than writing through an external pointer the
// way SplitterStep does. ComponentStep uses it to pull the real,
// fully-bound Solutions out of whichever work-unit step it suspended on,
// instead of re-deriving its own snapshot.
type solutionSource interface {
	collectedSolutions() []Solution
}

func (c *ComponentStep) collectedSolutions() []Solution {
	return c.solutions
}

// NewComponentStep builds a ComponentStep for one ConnectedComponents
// result. single marks the case where this is the system's only
// component and there are no orphaned constraints — in that case no
// Scope is opened, since there is no sibling attempt to roll back to.
func NewComponentStep(sys *System, component ComponentDescriptor, single bool) *ComponentStep {
	return &ComponentStep{sys: sys, component: component, single: single, state: StepSetup}
}

func (c *ComponentStep) String() string {
	return fmt.Sprintf("ComponentStep(%d)", c.component.Index)
}

func (c *ComponentStep) State() StepState {
	return c.state
}

func (c *ComponentStep) Setup() {
	if !c.single {
		c.scope = OpenScope(c.sys)
	}

	transition(StepSetup, StepReady)
	c.state = StepReady
}

// abandon is called only by the Driver's budget-exceeded unwind path; it
// closes any scope this step still holds open without trying to finish
// the component.
func (c *ComponentStep) abandon() {
	if c.scope != nil {
		c.scope.Close()
		c.scope = nil
	}
}

func (c *ComponentStep) Take(prevFailed bool) StepResult {
	transition(StepReady, StepRunning)
	return c.simplify()
}

func (c *ComponentStep) Resume(prevFailed bool) StepResult {
	transition(StepSuspended, StepRunning)

	if c.retrying {
		c.retrying = false
		return c.simplify()
	}

	if !prevFailed {
		if provider, ok := c.followup.(solutionSource); ok {
			c.solutions = append(c.solutions, provider.collectedSolutions()...)
		}

		c.finish(len(c.solutions) > 0)
		transition(StepRunning, StepDone)
		c.state = StepDone

		if len(c.solutions) == 0 {
			return StepResult{Kind: StepError}
		}

		return StepResult{Kind: StepSolved}
	}

	c.finish(false)
	transition(StepRunning, StepDone)
	c.state = StepDone
	return StepResult{Kind: StepError}
}

// simplify runs the simplifier over the component's constraints (plus
// anything a prior retry requeued) and decides what to do with the
// result: solved, contradiction, hand off to a disjunction/type-variable
// step, or — if nothing reduced but nothing contradicted either, the
// teacher's "ambiguous; try again" case — re-suspend on the same work.
func (c *ComponentStep) simplify() StepResult {
	constraints := c.component.Constraints
	if c.remaining != nil {
		constraints = c.remaining
	}

	result := c.sys.Simplifier.SimplifyAll(c.sys, constraints)
	if result.Contradiction {
		c.abandon()
		transition(StepRunning, StepDone)
		c.state = StepDone
		return StepResult{Kind: StepError}
	}

	if len(result.Remaining) == 0 {
		c.solutions = append(c.solutions, snapshotSolution(c.sys))
		c.finish(true)
		transition(StepRunning, StepDone)
		c.state = StepDone
		return StepResult{Kind: StepSolved}
	}

	madeProgress := len(result.Remaining) < len(constraints)
	c.remaining = result.Remaining

	if next := c.selectWorkUnit(result.Remaining); next != nil {
		c.followup = next
		transition(StepRunning, StepSuspended)
		c.state = StepSuspended
		return StepResult{Kind: StepUnsolved, Followups: []Step{next}}
	}

	if !madeProgress {
		// No work unit to suspend on and no progress this pass: the
		// same ambiguity bound_constraint.go's len(candidates) > 1 path
		// hits inside the typecheck solver. Re-suspend on a trivial
		// requeue step rather than treating this as exhaustion.
		c.retrying = true
		c.followup = nil
		transition(StepRunning, StepSuspended)
		c.state = StepSuspended
		return StepResult{Kind: StepUnsolved, Followups: []Step{newRequeueStep()}}
	}

	// Progress was made but nothing is left to drive a choice from yet
	// (e.g. only orphan-like ground constraints remain outside this
	// component) — loop immediately rather than suspending needlessly.
	return c.simplify()
}

// finish records the component's outcome. When keep is true and this
// step owns a real Scope (not the no-scope single-component case), the
// scope is committed so the bindings the component just made stay in
// effect for whatever runs after it; otherwise it is closed and
// discarded.
func (c *ComponentStep) finish(keep bool) {
	if c.scope == nil {
		return
	}

	if keep {
		c.scope.Commit()
	} else {
		c.scope.Close()
	}

	c.scope = nil
}

// selectWorkUnit picks the next thing for the component to suspend on:
// a disjunctive constraint (OverloadConstraint/DisjunctionConstraint)
// before a type variable, matching §4.3's stated precedence. Returns nil
// if nothing in remaining can drive further progress.
func (c *ComponentStep) selectWorkUnit(remaining []typecheck.Constraint) Step {
	for _, constraint := range remaining {
		if disjunctive, ok := constraint.(typecheck.Disjunctive); ok {
			return NewDisjunctionStep(c.sys, disjunctive)
		}
	}

	for _, tv := range c.sys.TypeVariables {
		if !componentHasVariable(c.component, tv) {
			continue
		}

		if _, bound := c.sys.Solver().Apply(tv.Node).(*typecheck.ConstructedType); bound {
			continue
		}

		if len(tv.Bindings().Bindings) == 0 {
			continue
		}

		return NewTypeVariableStep(c.sys, tv)
	}

	return nil
}

func componentHasVariable(component ComponentDescriptor, tv *typecheck.TypeVariable) bool {
	for _, node := range component.TypeVariables {
		if node == tv.Node {
			return true
		}
	}

	return false
}

// requeueStep is a no-op Step whose sole purpose is to give the Driver
// something to pop so a ComponentStep's Resume runs again — there is no
// real follow-up work, just another attempt at simplifying the same
// constraints after the requeue.
type requeueStep struct {
	state StepState
}

func newRequeueStep() *requeueStep {
	return &requeueStep{state: StepSetup}
}

func (r *requeueStep) String() string {
	return "requeue"
}

func (r *requeueStep) State() StepState {
	return r.state
}

func (r *requeueStep) Setup() {
	transition(StepSetup, StepReady)
	r.state = StepReady
}

func (r *requeueStep) Take(prevFailed bool) StepResult {
	transition(StepReady, StepRunning)
	transition(StepRunning, StepDone)
	r.state = StepDone
	return StepResult{Kind: StepSolved}
}

func (r *requeueStep) Resume(prevFailed bool) StepResult {
	invariant(false, "requeueStep never suspends")
	return StepResult{}
}

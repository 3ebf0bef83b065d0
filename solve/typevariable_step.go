package solve

import (
	"fmt"

	"typesolve/typecheck"
)

// TypeVariableStep tries a type variable's candidate bindings in order
// (subtype before supertype before literal default), opening a fresh
// Scope for each attempt so a failed or merely unproductive candidate
// never leaks into the next one. Each successful attempt re-enters the
// machine through a nested SplitterStep, since binding a variable can
// reshape which constraints now share a free variable.
type TypeVariableStep struct {
	sys *System
	tv  *typecheck.TypeVariable

	state    StepState
	bindings []typecheck.Binding
	cursor   int

	scope     *Scope
	anySolved bool

	pending   []Solution
	solutions []Solution
}

// NewTypeVariableStep builds a step that will try tv's recorded
// candidate bindings, most-preferred first.
func NewTypeVariableStep(sys *System, tv *typecheck.TypeVariable) *TypeVariableStep {
	return &TypeVariableStep{sys: sys, tv: tv, state: StepSetup}
}

func (t *TypeVariableStep) String() string {
	return fmt.Sprintf("TypeVariableStep(%s)", t.tv)
}

func (t *TypeVariableStep) State() StepState {
	return t.state
}

func (t *TypeVariableStep) Setup() {
	t.bindings = t.tv.Bindings().Ordered()

	transition(StepSetup, StepReady)
	t.state = StepReady
}

func (t *TypeVariableStep) collectedSolutions() []Solution {
	return t.solutions
}

// abandon closes this step's held scope without recording a solution,
// for the Driver's budget-exceeded unwind path.
func (t *TypeVariableStep) abandon() {
	if t.scope != nil {
		t.scope.Close()
		t.scope = nil
	}
}

func (t *TypeVariableStep) Take(prevFailed bool) StepResult {
	transition(StepReady, StepRunning)
	return t.attemptNext()
}

func (t *TypeVariableStep) Resume(prevFailed bool) StepResult {
	transition(StepSuspended, StepRunning)

	if len(t.pending) > 0 {
		t.solutions = append(t.solutions, t.pending...)
		t.pending = nil
		t.anySolved = true
		t.scope.Commit()
	} else {
		t.scope.Close()
	}
	t.scope = nil

	if t.anySolved && t.sys.Config().DisjunctionShortCircuit && len(t.solutions) > 0 {
		transition(StepRunning, StepDone)
		t.state = StepDone
		return StepResult{Kind: StepSolved}
	}

	return t.attemptNext()
}

// attemptNext advances the cursor through the ordered candidate list,
// skipping literal-default candidates once at least one non-default
// binding has already solved and Config.LiteralDefaultEarlyExit is set
// (the teacher's rationale: don't bother trying to default a variable
// that's already been constrained by something real). Each candidate
// that is actually tried opens its own Scope and suspends on a nested
// SplitterStep; attemptNext itself never blocks.
func (t *TypeVariableStep) attemptNext() StepResult {
	for t.cursor < len(t.bindings) {
		binding := t.bindings[t.cursor]
		t.cursor++

		if binding.Source == typecheck.BindingFromLiteralDefault &&
			t.anySolved && t.sys.Config().LiteralDefaultEarlyExit {
			continue
		}

		scope := OpenScope(t.sys)

		ok := t.sys.Simplifier.ApplyBinding(t.sys, t.tv, binding.Type, binding.Source)
		if !ok {
			scope.Close()
			continue
		}

		t.scope = scope
		t.pending = nil

		transition(StepRunning, StepSuspended)
		t.state = StepSuspended

		return StepResult{Kind: StepUnsolved, Followups: []Step{NewSplitterStep(t.sys, &t.pending)}}
	}

	transition(StepRunning, StepDone)
	t.state = StepDone

	if len(t.solutions) == 0 {
		return StepResult{Kind: StepError}
	}

	return StepResult{Kind: StepSolved}
}

package solve

import "testing"

func TestTransitionAllowsLifecycleOrder(t *testing.T) {
	transition(StepSetup, StepReady)
	transition(StepReady, StepRunning)
	transition(StepRunning, StepSuspended)
	transition(StepSuspended, StepRunning)
	transition(StepRunning, StepDone)
}

func TestTransitionRejectsSkippingSetup(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected transition to panic on Setup -> Running")
		}
	}()

	transition(StepSetup, StepRunning)
}

func TestTransitionRejectsDoneToAnything(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected transition to panic leaving Done")
		}
	}()

	transition(StepDone, StepReady)
}

func TestStepStateString(t *testing.T) {
	cases := map[StepState]string{
		StepSetup:     "setup",
		StepReady:     "ready",
		StepRunning:   "running",
		StepSuspended: "suspended",
		StepDone:      "done",
		StepState(99): "unknown",
	}

	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("StepState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestStepKindString(t *testing.T) {
	cases := map[StepKind]string{
		StepUnsolved: "unsolved",
		StepSolved:   "solved",
		StepError:    "error",
		StepKind(99): "unknown",
	}

	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("StepKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

package solve

import "time"

// Config tunes how Solve explores the step machine. The zero value is
// not meant to be used directly — call DefaultConfig and override only
// the knobs a caller actually cares about.
type Config struct {
	// RetainAllSolutions disables score-based pruning between merged
	// components, keeping every solution a SplitterStep produces. Set
	// by callers that want to inspect ambiguity rather than have Solve
	// silently pick among near-equal solutions.
	RetainAllSolutions bool

	// MaxSteps bounds how many Setup/Take/Resume dispatches the Driver will
	// perform before giving up and reporting StatusIncomplete. Zero
	// means unbounded.
	MaxSteps uint64

	// Deadline, if set, is checked alongside MaxSteps.
	Deadline *time.Time

	// LiteralDefaultEarlyExit skips a type variable's literal-default
	// candidates once an earlier candidate of the same TypeVariableStep
	// has already produced a solution, per bound_constraint.go's "don't bother
	// defaulting something already pinned down" rule.
	LiteralDefaultEarlyExit bool

	// DisjunctionShortCircuit trades completeness for speed at choice
	// points: TypeVariableStep stops at its first solved candidate binding,
	// and DisjunctionStep skips default choices once any choice has solved,
	// skips generic overload choices once a non-generic one has solved, and
	// stops once every remaining enabled choice is generic.
	DisjunctionShortCircuit bool

	// NearMinimumSlack is the tolerance filterSolutions uses to decide
	// whether a solution close to, but not exactly at, the best score
	// still survives pruning.
	NearMinimumSlack Score

	// Trace, if set, is invoked for every push/pop/setup/take/resume the
	// Driver performs.
	Trace TraceFunc
}

// DefaultConfig returns the Config Solve uses when callers don't build
// their own: short-circuiting enabled, literal defaults deferred, no
// step or time budget, and zero slack (only exactly-minimal solutions
// survive filtering).
func DefaultConfig() Config {
	return Config{
		LiteralDefaultEarlyExit: true,
		DisjunctionShortCircuit: true,
	}
}

// Status is Solve's top-level verdict on a run.
type Status int

const (
	// StatusSolved means at least one solution was found and the
	// machine ran to completion (every Step reached StepDone on its own,
	// not because the budget was exceeded).
	StatusSolved Status = iota
	// StatusUnsolved means the machine ran to completion and found no
	// solution — every path ended in contradiction.
	StatusUnsolved
	// StatusIncomplete means MaxSteps or Deadline was hit before the
	// machine could finish; whatever solutions had already been found
	// are still returned, but there may have been more.
	StatusIncomplete
)

func (status Status) String() string {
	switch status {
	case StatusSolved:
		return "solved"
	case StatusUnsolved:
		return "unsolved"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// scopeOwner is implemented by Step kinds that may hold an open Scope
// across a suspension (ComponentStep, TypeVariableStep, DisjunctionStep).
// The Driver's budget-exceeded unwind path uses it to rewind every open
// scope, innermost first, without needing to know each Step's internals.
type scopeOwner interface {
	abandon()
}

// frame is one entry in the Driver's LIFO work stack: the Step itself,
// plus the opaque trace ID it was pushed under.
type frame struct {
	step Step
	id   string
}

// Driver dispatches a stack of Steps to completion, exactly mirroring
// CSStep.h's SolverStep::solve loop: push the root step, and on every
// iteration either advance the step on top (Setup/Take/Resume depending
// on its state) or, once it reaches StepDone, pop it and feed its
// disposition back into whatever is now on top.
type Driver struct {
	sys   *System
	cfg   Config
	runID string
	stack []*frame
	steps uint64
}

// NewDriver builds a Driver that will run root to completion against
// sys, under cfg.
func NewDriver(sys *System, cfg Config, root Step) *Driver {
	d := &Driver{sys: sys, cfg: cfg, runID: newID()}
	d.push(root)
	return d
}

func (d *Driver) push(step Step) {
	id := newID()
	d.stack = append(d.stack, &frame{step: step, id: id})
	d.trace(step, id, "push", step.State(), step.State())
}

func (d *Driver) pop() *frame {
	f := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	d.trace(f.step, f.id, "pop", f.step.State(), f.step.State())
	return f
}

func (d *Driver) trace(step Step, id string, kind string, from, to StepState) {
	if d.cfg.Trace == nil {
		return
	}

	d.cfg.Trace(TraceEvent{
		RunID:  d.runID,
		StepID: id,
		Step:   step.String(),
		Kind:   kind,
		From:   from,
		To:     to,
	})
}

// run dispatches until the stack empties, the budget is exceeded, or a
// terminal disposition bubbles out of the root step. It returns the
// root's final StepKind and whether the budget was exceeded before the
// stack could empty on its own.
func (d *Driver) run() (StepKind, bool) {
	prevFailed := false
	final := StepSolved

	for len(d.stack) > 0 {
		if d.budgetExceeded() {
			d.unwindAll()
			return StepError, true
		}

		top := d.stack[len(d.stack)-1]
		d.steps++

		var result StepResult

		switch top.step.State() {
		case StepSetup:
			before := top.step.State()
			top.step.Setup()
			d.trace(top.step, top.id, "setup", before, top.step.State())
			continue
		case StepReady:
			before := top.step.State()
			result = top.step.Take(prevFailed)
			d.trace(top.step, top.id, "take", before, top.step.State())
		case StepSuspended:
			before := top.step.State()
			result = top.step.Resume(prevFailed)
			d.trace(top.step, top.id, "resume", before, top.step.State())
		case StepRunning, StepDone:
			invariant(false, "driver dispatched onto a step already past Ready/Suspended: %v", top.step.State())
		}

		prevFailed = d.handleResult(result)
		final = result.Kind
	}

	return final, false
}

// handleResult pushes any followups (in order, so index 0 is dispatched
// next) and pops the current frame if the step reported a terminal
// disposition; it returns whether the disposition should be threaded to
// whatever runs next as "the previous attempt failed".
func (d *Driver) handleResult(result StepResult) bool {
	switch result.Kind {
	case StepUnsolved:
		for i := len(result.Followups) - 1; i >= 0; i-- {
			d.push(result.Followups[i])
		}

		return false
	case StepSolved:
		d.pop()
		return false
	case StepError:
		d.pop()
		return true
	default:
		invariant(false, "unknown step kind %v", result.Kind)
		return false
	}
}

func (d *Driver) budgetExceeded() bool {
	if d.cfg.MaxSteps > 0 && d.steps >= d.cfg.MaxSteps {
		return true
	}

	if d.cfg.Deadline != nil && !d.cfg.Deadline.IsZero() && timeNow().After(*d.cfg.Deadline) {
		return true
	}

	return false
}

// timeNow is a thin indirection over time.Now so a future test harness
// can substitute a fake clock without the Driver depending on it
// directly; nothing in this package currently overrides it.
func timeNow() time.Time {
	return time.Now()
}

// unwindAll closes every open scope on the stack, innermost (top of
// stack) first, when the budget runs out mid-solve. Steps that never
// opened a scope (SplitterStep) simply have nothing to abandon.
func (d *Driver) unwindAll() {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if owner, ok := d.stack[i].step.(scopeOwner); ok {
			owner.abandon()
		}
	}

	d.stack = nil
}

// Solve runs sys's constraints to completion under cfg and returns
// every solution found, filtered per cfg.RetainAllSolutions, along with
// a verdict on how the run ended.
func Solve(sys *System, cfg Config) ([]Solution, Status) {
	sys.config = &cfg

	var solutions []Solution
	root := NewSplitterStep(sys, &solutions)

	driver := NewDriver(sys, cfg, root)
	_, incomplete := driver.run()

	if !cfg.RetainAllSolutions {
		solutions = filterSolutions(solutions, cfg.NearMinimumSlack)
	}

	if incomplete {
		return solutions, StatusIncomplete
	}

	if len(solutions) == 0 {
		return solutions, StatusUnsolved
	}

	return solutions, StatusSolved
}

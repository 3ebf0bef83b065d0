package solve

import gonanoid "github.com/matoous/go-nanoid/v2"

// TraceEvent describes one state transition or push/pop the Driver
// performed. It exists purely for diagnostics and testing (see SPEC_FULL
// §5); nothing in the step machine itself reads it back.
type TraceEvent struct {
	RunID  string
	StepID string
	Step   string
	Kind   string // "push", "pop", "setup", "take", "resume"
	From   StepState
	To     StepState
}

// TraceFunc is the observability hook a Config may set. It is called
// synchronously on the same goroutine that is solving — per §5's
// single-threaded model, it must not be assumed to run concurrently with
// solving and must not itself try to mutate the System.
type TraceFunc func(event TraceEvent)

// newID mints a short opaque identifier for a solve run or a pushed
// step, the same way the teacher mints share-link IDs
// (compiler/server/share.go's gonanoid.New()) — repurposed here to give
// TraceEvent stable, greppable identifiers instead of raw pointers.
func newID() string {
	id, err := gonanoid.New(8)
	if err != nil {
		// gonanoid.New only fails if asked for a negative length or the
		// system's crypto/rand source is broken; neither is recoverable.
		panic(err)
	}

	return id
}

package steplocal

import "time"

// Observer receives lifecycle events from scoped executions. Methods
// are called synchronously from the goroutine performing the step, so
// implementations should be fast and must tolerate concurrent calls
// when a single observer serves cells stepped from several goroutines.
type Observer interface {
	// ScopeStarted fires when a wrapper created for the cell performs
	// its first step.
	ScopeStarted(cell string)
	// StepFinished fires after every step with its duration. panicked
	// reports that the inner execution exited the step by panicking.
	StepFinished(cell string, dur time.Duration, panicked bool)
	// ScopeCompleted fires after the completing step with the total
	// number of steps and the wall time since the first step began.
	ScopeCompleted(cell string, steps int, total time.Duration)
}

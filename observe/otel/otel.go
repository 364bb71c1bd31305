package otel

import "time"

// Nop is a no-op implementation of the steplocal.Observer interface.
// It serves as a placeholder for an OpenTelemetry-backed observer
// without adding dependencies.
type Nop struct{}

// NewNop returns a no-op observer.
func NewNop() *Nop { return &Nop{} }

func (*Nop) ScopeStarted(string)                       {}
func (*Nop) StepFinished(string, time.Duration, bool)  {}
func (*Nop) ScopeCompleted(string, int, time.Duration) {}

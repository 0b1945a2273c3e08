package scheduler

import "sync/atomic"

// ShutdownSignal is the single cooperative stop flag shared by every stop
// trigger (stdin, OS signal, admin endpoint). Set at most once, never reset;
// triggering repeatedly is harmless.
type ShutdownSignal struct {
	fired atomic.Bool
}

func NewShutdownSignal() *ShutdownSignal { return &ShutdownSignal{} }

// Trigger sets the flag. Idempotent; reports whether this call was the first.
func (s *ShutdownSignal) Trigger() bool {
	return s.fired.CompareAndSwap(false, true)
}

// Triggered reports whether the flag has been set.
func (s *ShutdownSignal) Triggered() bool { return s.fired.Load() }

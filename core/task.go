package core

import (
	"context"
	"time"
)

// Task is the unit of work (Closure)
type Task func(ctx context.Context)

// TaskWithResult is a unit of work that produces a value and an error.
// The value is only observable after the call has been joined.
type TaskWithResult[T any] func(ctx context.Context) (T, error)

// =============================================================================
// ExecutionPolicy: Define how a dispatched call runs
// =============================================================================

// ExecutionPolicy describes the execution context applied to every call made
// through a Dispatcher.
type ExecutionPolicy struct {
	// Daemon detaches the call from process lifetime accounting.
	// Daemon calls never hold LifetimeTracker.Wait open.
	Daemon bool

	// Join blocks the caller until the spawned goroutine terminates.
	Join bool

	// Delay suspends the spawned goroutine for this duration before the
	// target runs. Zero means no delay.
	Delay time.Duration

	// CaptureReturn delivers the target's return value to the caller.
	// Capture implies Join: the value only exists after completion.
	CaptureReturn bool
}

// Validate reports a configuration error before any goroutine is spawned.
func (p ExecutionPolicy) Validate() error {
	if p.Delay < 0 {
		return ErrNegativeDelay
	}
	return nil
}

// Joins reports whether the caller blocks on call termination,
// either explicitly or implied by CaptureReturn.
func (p ExecutionPolicy) Joins() bool {
	return p.Join || p.CaptureReturn
}

// Mode names the policy after the decorator it backs. Used as the metrics
// label and in panic reports.
func (p ExecutionPolicy) Mode() string {
	base := "thread"
	if p.Delay > 0 {
		base = "delay"
	}
	switch {
	case p.CaptureReturn:
		return base + "_with_return_value"
	case p.Daemon:
		return base + "_daemon"
	case p.Join:
		return base + "_join"
	}
	return base
}

// WithDelay returns a copy of the policy with the given start delay.
func (p ExecutionPolicy) WithDelay(delay time.Duration) ExecutionPolicy {
	p.Delay = delay
	return p
}

// Convenience constructors for the four base policies.

func DefaultPolicy() ExecutionPolicy {
	return ExecutionPolicy{}
}

func JoinedPolicy() ExecutionPolicy {
	return ExecutionPolicy{Join: true}
}

func DaemonicPolicy() ExecutionPolicy {
	return ExecutionPolicy{Daemon: true}
}

func CapturedPolicy() ExecutionPolicy {
	return ExecutionPolicy{Join: true, CaptureReturn: true}
}

package core

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// =============================================================================
// Dispatcher: Spawn one goroutine per call under an ExecutionPolicy
// =============================================================================

// Dispatcher runs targets on fresh goroutines according to one
// ExecutionPolicy. It owns no shared mutable state beyond the per-call
// handoff slot and the non-daemon lifetime accounting: concurrent calls
// through the same dispatcher are fully independent.
type Dispatcher struct {
	policy ExecutionPolicy
	mode   string

	panicHandler PanicHandler
	metrics      Metrics
	tracker      *LifetimeTracker

	inFlight atomic.Int64
}

// NewDispatcher creates a Dispatcher for the given policy.
// It returns ErrNegativeDelay if the policy is invalid; nothing is spawned
// in that case. A nil config selects DefaultDispatcherConfig.
func NewDispatcher(policy ExecutionPolicy, config *DispatcherConfig) (*Dispatcher, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultDispatcherConfig()
	}

	logger := config.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	panicHandler := config.PanicHandler
	if panicHandler == nil {
		panicHandler = NewDefaultPanicHandler(logger)
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = &NilMetrics{}
	}
	tracker := config.Tracker
	if tracker == nil {
		tracker = DefaultTracker()
	}

	return &Dispatcher{
		policy:       policy,
		mode:         policy.Mode(),
		panicHandler: panicHandler,
		metrics:      metrics,
		tracker:      tracker,
	}, nil
}

// MustDispatcher is like NewDispatcher but panics on an invalid policy.
// This is the decoration-time path: a negative delay is a programming error
// caught before any call is made.
func MustDispatcher(policy ExecutionPolicy, config *DispatcherConfig) *Dispatcher {
	d, err := NewDispatcher(policy, config)
	if err != nil {
		panic(err)
	}
	return d
}

// Policy returns a copy of the dispatcher's execution policy.
func (d *Dispatcher) Policy() ExecutionPolicy {
	return d.policy
}

// Mode returns the dispatch mode name ("thread", "delay_join", ...).
func (d *Dispatcher) Mode() string {
	return d.mode
}

// InFlightCount returns the number of spawned goroutines that have not
// terminated, including those still in their start delay.
func (d *Dispatcher) InFlightCount() int {
	return int(d.inFlight.Load())
}

// Go spawns one goroutine running task under the policy and returns its
// Handle without joining. This is the dispatch primitive; Wrap and Call
// apply the policy's join behavior on top of it.
//
// The policy's Delay elapses on the spawned goroutine before task runs.
// Non-daemon calls are registered with the lifetime tracker before Go
// returns.
func (d *Dispatcher) Go(ctx context.Context, task Task) *Handle {
	h := newHandle()

	d.metrics.RecordDispatch(d.mode)
	if !d.policy.Daemon {
		d.tracker.add()
	}
	d.metrics.RecordInFlight(d.mode, int(d.inFlight.Add(1)))

	go d.run(ctx, task, h)
	return h
}

// Call dispatches task and applies the policy's join behavior: it blocks
// until termination when the policy joins, and returns immediately
// otherwise.
func (d *Dispatcher) Call(ctx context.Context, task Task) {
	h := d.Go(ctx, task)
	if d.policy.Joins() {
		h.Join()
	}
}

// Wrap returns a Task with the same signature as task that dispatches it
// through the policy on every invocation.
func (d *Dispatcher) Wrap(task Task) Task {
	return func(ctx context.Context) {
		d.Call(ctx, task)
	}
}

// run is the body of the spawned goroutine: delay, execute, publish outcome.
func (d *Dispatcher) run(ctx context.Context, task Task, h *Handle) {
	var panicked *PanicError

	defer func() {
		// Accounting settles before the outcome is published, so a
		// joined caller returns with the call fully accounted for.
		d.metrics.RecordInFlight(d.mode, int(d.inFlight.Add(-1)))
		if !d.policy.Daemon {
			d.tracker.done()
		}
		h.finish(panicked)
	}()

	if d.policy.Delay > 0 {
		// Pure time-based sleep. The delay is not interruptible:
		// once spawned, a call runs to completion.
		timer := time.NewTimer(d.policy.Delay)
		<-timer.C
	}

	start := time.Now()
	func() {
		defer func() {
			d.metrics.RecordCallDuration(d.mode, time.Since(start))
			if r := recover(); r != nil {
				panicked = &PanicError{Value: r, Stack: debug.Stack()}
				d.metrics.RecordCallPanic(d.mode)
				if !d.policy.Joins() {
					// Nobody is waiting on this call; report and continue.
					d.panicHandler.HandlePanic(ctx, d.mode, r, panicked.Stack)
				}
			}
		}()
		task(ctx)
	}()
}

// =============================================================================
// Generic capture: free functions, methods cannot be generic
// =============================================================================

// GoResult dispatches task and returns a handle carrying its future result.
// The result slot is private to this call: concurrent GoResult calls through
// the same dispatcher never interfere with each other's values.
func GoResult[T any](d *Dispatcher, ctx context.Context, task TaskWithResult[T]) *ResultHandle[T] {
	rh := &ResultHandle[T]{}
	rh.Handle = d.Go(ctx, func(ctx context.Context) {
		// Written before the handle finishes; the done close publishes
		// both fields to the joining goroutine.
		rh.value, rh.err = task(ctx)
	})
	return rh
}

// CallResult dispatches task, joins, and returns the captured value and
// error. A target panic is re-raised on the calling goroutine.
func CallResult[T any](d *Dispatcher, ctx context.Context, task TaskWithResult[T]) (T, error) {
	return GoResult(d, ctx, task).Result()
}

// WrapResult returns a TaskWithResult with the same signature as task that
// dispatches it through the policy and blocks for the captured result on
// every invocation.
func WrapResult[T any](d *Dispatcher, task TaskWithResult[T]) TaskWithResult[T] {
	return func(ctx context.Context) (T, error) {
		return CallResult(d, ctx, task)
	}
}

package sew

import (
	"context"
	"sync"
	"time"

	"github.com/Coal0/Sew/core"
)

// =============================================================================
// Package configuration (shared by the decorator constructors)
// =============================================================================

var (
	packageConfig   *core.DispatcherConfig
	packageConfigMu sync.Mutex
)

// Configure sets the DispatcherConfig used by decorators created after this
// call. Passing nil restores the defaults. Dispatchers already created keep
// their configuration.
func Configure(config *core.DispatcherConfig) {
	packageConfigMu.Lock()
	defer packageConfigMu.Unlock()
	packageConfig = config
}

func currentConfig() *core.DispatcherConfig {
	packageConfigMu.Lock()
	defer packageConfigMu.Unlock()
	return packageConfig
}

// Wait blocks until every non-daemon call dispatched through this package
// has terminated. Daemon calls are not tracked and never hold Wait open.
//
// Call this before process exit when fire-and-forget work must finish;
// Go itself does not wait for goroutines.
func Wait() {
	core.DefaultTracker().Wait()
}

// =============================================================================
// Decorators: Thread family
// =============================================================================

// Thread wraps f so that calling the wrapper runs f on a separate goroutine.
// The wrapper returns immediately; failures in f are not observable by the
// caller (fire-and-forget).
func Thread[A any](f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return wrap(core.DefaultPolicy(), f)
}

// ThreadJoin wraps f so that calling the wrapper runs f on a separate
// goroutine and joins it: the wrapper blocks until f has terminated.
// A panic in f is re-raised at the call site.
func ThreadJoin[A any](f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return wrap(core.JoinedPolicy(), f)
}

// ThreadDaemon wraps f so that calling the wrapper runs f on a separate
// daemon goroutine. Daemon calls do not hold Wait open: the process may
// exit while they run.
func ThreadDaemon[A any](f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return wrap(core.DaemonicPolicy(), f)
}

// ThreadWithReturnValue wraps f so that calling the wrapper runs f on a
// separate goroutine and returns its return value. The wrapper blocks until
// f has terminated (capture implies join), so for a deterministic f the
// wrapper is call-for-call equivalent to f itself.
func ThreadWithReturnValue[A, R any](f func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
	return wrapResult(core.CapturedPolicy(), f)
}

// =============================================================================
// Decorators: Delay family
// =============================================================================

// Delay returns a decorator that waits delay before calling f on a separate
// goroutine. The wrapper itself returns immediately. A negative delay
// panics with ErrNegativeDelay at decoration time.
func Delay[A any](delay time.Duration) func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
		return wrap(core.DefaultPolicy().WithDelay(delay), f)
	}
}

// DelayJoin returns a decorator that waits delay before calling f on a
// separate goroutine and joins it: the wrapper blocks for at least delay
// plus f's own run time.
func DelayJoin[A any](delay time.Duration) func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
		return wrap(core.JoinedPolicy().WithDelay(delay), f)
	}
}

// DelayDaemon returns a decorator that waits delay before calling f on a
// separate daemon goroutine.
func DelayDaemon[A any](delay time.Duration) func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	return func(f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
		return wrap(core.DaemonicPolicy().WithDelay(delay), f)
	}
}

// DelayWithReturnValue returns a decorator that waits delay before calling f
// on a separate goroutine and returns its return value.
func DelayWithReturnValue[A, R any](delay time.Duration) func(f func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
	return func(f func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
		return wrapResult(core.CapturedPolicy().WithDelay(delay), f)
	}
}

// =============================================================================
// Internal plumbing
// =============================================================================

func wrap[A any](policy core.ExecutionPolicy, f func(ctx context.Context, arg A)) func(ctx context.Context, arg A) {
	d := core.MustDispatcher(policy, currentConfig())
	return func(ctx context.Context, arg A) {
		d.Call(ctx, func(ctx context.Context) {
			f(ctx, arg)
		})
	}
}

func wrapResult[A, R any](policy core.ExecutionPolicy, f func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
	d := core.MustDispatcher(policy, currentConfig())
	return func(ctx context.Context, arg A) (R, error) {
		return core.CallResult(d, ctx, func(ctx context.Context) (R, error) {
			return f(ctx, arg)
		})
	}
}

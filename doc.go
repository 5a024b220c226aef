// Package sew provides function-call decorators that run a target on its own
// goroutine, optionally after a delay, and optionally block the caller to
// retrieve the target's return value.
//
// Eight decorators cover the policy matrix:
//
//   - Thread: call a function on a separate goroutine.
//
//   - ThreadJoin: call a function on a separate goroutine and join it.
//
//   - ThreadDaemon: call a function on a separate daemon goroutine.
//
//   - ThreadWithReturnValue: call a function on a separate goroutine and
//     return its return value.
//
//   - Delay: delay before calling a function.
//
//   - DelayJoin: delay before calling a function and join the goroutine.
//
//   - DelayDaemon: delay before calling a function on a daemon goroutine.
//
//   - DelayWithReturnValue: delay before calling a function and return its
//     return value.
//
// # Quick Start
//
//	notify := sew.Thread(func(ctx context.Context, user string) {
//		sendMail(user)
//	})
//	notify(ctx, "alice") // returns immediately
//
//	get := sew.DelayWithReturnValue[int, int](500 * time.Millisecond)(
//		func(ctx context.Context, i int) (int, error) {
//			return numbers[i], nil
//		})
//	v, err := get(ctx, 2) // blocks ~0.5s, then v == numbers[2]
//
// # Key Concepts
//
// Every call to a decorated function spawns exactly one new goroutine; there
// is no pooling and no shared state between calls. Each wrapper keeps the
// call signature of the function it wraps; multi-argument targets take a
// struct argument or close over their inputs.
//
// Joining variants (ThreadJoin, DelayJoin, and both WithReturnValue forms)
// block the caller until the spawned goroutine terminates, so a target panic
// is re-raised at the call site and a target error is returned directly,
// matching a synchronous call. Non-joining variants are fire-and-forget: the
// caller never observes a failure, and panics are reported through the
// configured PanicHandler (by default, logged to stderr) while the process
// continues.
//
// Daemon variants are excluded from process lifetime accounting: sew.Wait
// blocks until all non-daemon fire-and-forget calls have finished, but an
// unfinished daemon call never holds it open.
//
// # Thread Safety
//
// Decorated functions may be called concurrently from any goroutine. Each
// invocation gets a private handoff slot for its result, so concurrent calls
// to the same decorated function cannot cross results. Resources shared by
// the wrapped function itself remain the caller's responsibility.
//
// For lower-level control (handles, custom policies, metrics), see the core
// package and the observability/prometheus exporter.
package sew

package core

// =============================================================================
// Handle: Per-call ownership of one spawned goroutine
// =============================================================================

// Handle owns one dispatched call. Every call through a Dispatcher creates
// exactly one new Handle; handles are never reused or pooled.
//
// The handle doubles as the handoff slot between the spawned goroutine and
// the joining caller: the goroutine writes its outcome before closing done,
// and the close gives the caller the happens-before edge needed to read it.
type Handle struct {
	done     chan struct{}
	panicked *PanicError // written before done closes
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done returns a channel that is closed when the call terminates.
// Useful for select-based waiting.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Join blocks until the call terminates. If the target panicked, the panic is
// re-raised on the calling goroutine with a *PanicError value, matching the
// behavior of a direct synchronous call.
func (h *Handle) Join() {
	<-h.done
	if h.panicked != nil {
		panic(h.panicked)
	}
}

// JoinErr blocks like Join but converts a target panic into a *PanicError
// return instead of re-raising it.
func (h *Handle) JoinErr() error {
	<-h.done
	if h.panicked != nil {
		return h.panicked
	}
	return nil
}

// finish publishes the call outcome. Called exactly once, on the spawned
// goroutine, after the target has returned or panicked.
func (h *Handle) finish(panicked *PanicError) {
	h.panicked = panicked
	close(h.done)
}

// =============================================================================
// ResultHandle: Handle plus the captured return value
// =============================================================================

// ResultHandle carries the captured return value of one dispatched call.
// The value and error fields are private to this call; concurrent calls to
// the same decorated function never share a slot.
type ResultHandle[T any] struct {
	*Handle
	value T
	err   error
}

// Result joins the call and returns the captured value and error.
// A target panic is re-raised here, like Handle.Join.
func (h *ResultHandle[T]) Result() (T, error) {
	h.Join()
	return h.value, h.err
}

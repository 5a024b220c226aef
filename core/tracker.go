package core

import "sync"

// LifetimeTracker accounts for in-flight non-daemon calls.
//
// Go processes exit without waiting for goroutines, so the daemon/non-daemon
// distinction is surfaced explicitly: non-daemon calls register here and
// Wait blocks until all of them have terminated. Daemon calls are never
// registered, so an unfinished daemon call cannot hold Wait open.
type LifetimeTracker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	inflight int
}

func NewLifetimeTracker() *LifetimeTracker {
	t := &LifetimeTracker{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Wait blocks until every registered call has terminated.
// It returns immediately when nothing is in flight.
func (t *LifetimeTracker) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.inflight > 0 {
		t.cond.Wait()
	}
}

// InFlight returns the number of registered calls that have not terminated.
func (t *LifetimeTracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inflight
}

// add registers one call. Called synchronously at dispatch time, before the
// goroutine is spawned, so Wait cannot slip between dispatch and start.
func (t *LifetimeTracker) add() {
	t.mu.Lock()
	t.inflight++
	t.mu.Unlock()
}

func (t *LifetimeTracker) done() {
	t.mu.Lock()
	t.inflight--
	if t.inflight == 0 {
		t.cond.Broadcast()
	}
	t.mu.Unlock()
}

var defaultTracker = NewLifetimeTracker()

// DefaultTracker returns the process-wide tracker shared by dispatchers that
// do not configure their own.
func DefaultTracker() *LifetimeTracker {
	return defaultTracker
}

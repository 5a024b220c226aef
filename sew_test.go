package sew

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Coal0/Sew/core"
)

// TestThreadReturnsImmediately verifies the fire-and-forget decorator contract
// Given: Two Thread-decorated calls that sleep before appending to a shared list
// When: Both wrappers are invoked
// Then: Both return immediately and the list reaches its final state only later
func TestThreadReturnsImmediately(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var log []string
	appendAfterSleep := Thread(func(ctx context.Context, entry string) {
		time.Sleep(200 * time.Millisecond)
		mu.Lock()
		log = append(log, entry)
		mu.Unlock()
	})

	// Act
	started := time.Now()
	appendAfterSleep(context.Background(), "first")
	appendAfterSleep(context.Background(), "second")
	elapsed := time.Since(started)

	// Assert
	if elapsed >= 100*time.Millisecond {
		t.Fatalf("Thread wrappers blocked for %v", elapsed)
	}
	mu.Lock()
	early := len(log)
	mu.Unlock()
	if early != 0 {
		t.Fatalf("list has %d entries before the targets slept", early)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(log)
		mu.Unlock()
		if n == 2 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("list reached %d entries, want 2", n)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// TestThreadJoinBlocks verifies the joining decorator blocks the caller
// Given: A ThreadJoin-decorated target that records completion
// When: The wrapper returns
// Then: The target has already finished
func TestThreadJoinBlocks(t *testing.T) {
	// Arrange
	var finished atomic.Bool
	run := ThreadJoin(func(ctx context.Context, _ struct{}) {
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	})

	// Act
	run(context.Background(), struct{}{})

	// Assert
	if !finished.Load() {
		t.Fatal("ThreadJoin returned before the target finished")
	}
}

// TestThreadWithReturnValueEquivalence verifies sync/async result equivalence
// Given: A deterministic target decorated with ThreadWithReturnValue
// When: The wrapper and the target are called with the same argument
// Then: Both return the same value
func TestThreadWithReturnValueEquivalence(t *testing.T) {
	// Arrange
	double := func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	}
	wrapped := ThreadWithReturnValue(double)

	// Act
	direct, _ := double(context.Background(), 21)
	async, err := wrapped(context.Background(), 21)

	// Assert
	if err != nil {
		t.Fatalf("wrapper returned error %v", err)
	}
	if async != direct {
		t.Fatalf("wrapper = %d, direct = %d", async, direct)
	}
}

// TestThreadWithReturnValueConcurrentIndependence verifies slots never cross
// Given: One decorated function invoked concurrently with distinct arguments
// When: All invocations complete
// Then: Every result matches its own argument
func TestThreadWithReturnValueConcurrentIndependence(t *testing.T) {
	// Arrange
	identity := ThreadWithReturnValue(func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n%3) * 15 * time.Millisecond)
		return n, nil
	})

	const calls = 12
	results := make([]int, calls)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v, err := identity(context.Background(), n)
			if err != nil {
				t.Errorf("call %d: %v", n, err)
				return
			}
			results[n] = v
		}(i)
	}
	wg.Wait()

	// Assert
	for i, v := range results {
		if v != i {
			t.Fatalf("results[%d] = %d (cross-talk between calls)", i, v)
		}
	}
}

// TestDelayWithReturnValueScenario verifies the delayed lookup scenario
// Given: numbers = [0,1,2,3] and a 300ms DelayWithReturnValue lookup
// When: get(2) is called
// Then: The call blocks at least 300ms and returns numbers[2]
func TestDelayWithReturnValueScenario(t *testing.T) {
	// Arrange
	numbers := []int{0, 1, 2, 3}
	get := DelayWithReturnValue[int, int](300 * time.Millisecond)(
		func(ctx context.Context, i int) (int, error) {
			return numbers[i], nil
		})

	// Act
	started := time.Now()
	v, err := get(context.Background(), 2)
	elapsed := time.Since(started)

	// Assert
	if err != nil {
		t.Fatalf("get returned error %v", err)
	}
	if v != 2 {
		t.Fatalf("get(2) = %d, want 2", v)
	}
	if elapsed < 300*time.Millisecond {
		t.Fatalf("get returned after %v, want >= 300ms", elapsed)
	}
}

// TestDelayDefersWithoutBlocking verifies Delay neither blocks nor runs early
// Given: A Delay-decorated target with a 300ms delay
// When: The wrapper is invoked
// Then: It returns immediately and the target runs only after the delay
func TestDelayDefersWithoutBlocking(t *testing.T) {
	// Arrange
	var ran atomic.Bool
	deferred := Delay[struct{}](300 * time.Millisecond)(func(ctx context.Context, _ struct{}) {
		ran.Store(true)
	})

	// Act
	started := time.Now()
	deferred(context.Background(), struct{}{})

	// Assert
	if elapsed := time.Since(started); elapsed >= 100*time.Millisecond {
		t.Fatalf("Delay wrapper blocked for %v", elapsed)
	}
	time.Sleep(100 * time.Millisecond)
	if ran.Load() {
		t.Fatal("target ran before the delay elapsed")
	}
	deadline := time.After(2 * time.Second)
	for !ran.Load() {
		select {
		case <-deadline:
			t.Fatal("target never ran")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// TestDelayJoinWallClock verifies the joined delay lower bound
// Given: A DelayJoin-decorated no-op with a 200ms delay
// When: The wrapper is invoked
// Then: The wall-clock time is at least the delay
func TestDelayJoinWallClock(t *testing.T) {
	// Arrange
	const delay = 200 * time.Millisecond
	run := DelayJoin[struct{}](delay)(func(ctx context.Context, _ struct{}) {})

	// Act
	started := time.Now()
	run(context.Background(), struct{}{})

	// Assert
	if elapsed := time.Since(started); elapsed < delay {
		t.Fatalf("DelayJoin returned after %v, want >= %v", elapsed, delay)
	}
}

// TestNegativeDelayPanicsAtDecorationTime verifies configuration errors fail early
// Given: A negative delay
// When: The Delay decorator factory is applied to a target
// Then: It panics with ErrNegativeDelay before any call is made
func TestNegativeDelayPanicsAtDecorationTime(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("negative delay did not panic at decoration time")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNegativeDelay) {
			t.Fatalf("panic = %v, want ErrNegativeDelay", r)
		}
	}()
	Delay[int](-1 * time.Second)(func(ctx context.Context, n int) {})
}

// TestThreadPanicDoesNotPropagate verifies fire-and-forget failure isolation
// Given: A Thread-decorated target that panics, with a recording handler installed
// When: The wrapper is invoked
// Then: The call site is unaffected and the handler receives the report
func TestThreadPanicDoesNotPropagate(t *testing.T) {
	// Arrange
	seen := make(chan any, 1)
	Configure(&core.DispatcherConfig{
		Logger:  core.NewNoOpLogger(),
		Tracker: core.NewLifetimeTracker(),
		PanicHandler: panicHandlerFunc(func(ctx context.Context, mode string, panicInfo any, stack []byte) {
			seen <- panicInfo
		}),
	})
	defer Configure(nil)

	explode := Thread(func(ctx context.Context, _ struct{}) {
		panic("background boom")
	})

	// Act
	explode(context.Background(), struct{}{})

	// Assert
	select {
	case info := <-seen:
		if fmt.Sprint(info) != "background boom" {
			t.Fatalf("handler saw %v, want background boom", info)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler was not invoked")
	}
}

// TestThreadWithReturnValuePanicSurfaces verifies joined failure equivalence
// Given: A ThreadWithReturnValue-decorated target that panics
// When: The wrapper is invoked
// Then: The panic is re-raised at the call site as a *PanicError
func TestThreadWithReturnValuePanicSurfaces(t *testing.T) {
	// Arrange
	explode := ThreadWithReturnValue(func(ctx context.Context, _ struct{}) (int, error) {
		panic("captured boom")
	})

	// Act + Assert
	defer func() {
		r := recover()
		pe, ok := r.(*core.PanicError)
		if !ok {
			t.Fatalf("panic value = %T (%v), want *PanicError", r, r)
		}
		if pe.Value != "captured boom" {
			t.Fatalf("PanicError.Value = %v, want captured boom", pe.Value)
		}
	}()
	_, _ = explode(context.Background(), struct{}{})
}

// TestWaitCoversNonDaemonCalls verifies package-level lifetime accounting
// Given: A Thread-decorated call gated on a channel
// When: Wait is entered while the call is in flight
// Then: Wait returns only once the call terminates
func TestWaitCoversNonDaemonCalls(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	hold := Thread(func(ctx context.Context, _ struct{}) {
		<-release
	})
	hold(context.Background(), struct{}{})

	waited := make(chan struct{})
	go func() {
		Wait()
		close(waited)
	}()

	// Assert
	select {
	case <-waited:
		t.Fatal("Wait returned with a non-daemon call in flight")
	case <-time.After(100 * time.Millisecond):
	}
	close(release)
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the call finished")
	}
}

// TestThreadDaemonSkipsWait verifies daemon calls never hold Wait open
// Given: A ThreadDaemon-decorated call gated on a channel
// When: Wait is called
// Then: It returns while the daemon call is still running
func TestThreadDaemonSkipsWait(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	defer close(release)
	background := ThreadDaemon(func(ctx context.Context, _ struct{}) {
		<-release
	})
	background(context.Background(), struct{}{})

	waited := make(chan struct{})
	go func() {
		Wait()
		close(waited)
	}()

	// Assert
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked on a daemon call")
	}
}

// panicHandlerFunc adapts a function to core.PanicHandler.
type panicHandlerFunc func(ctx context.Context, mode string, panicInfo any, stackTrace []byte)

func (f panicHandlerFunc) HandlePanic(ctx context.Context, mode string, panicInfo any, stackTrace []byte) {
	f(ctx, mode, panicInfo, stackTrace)
}

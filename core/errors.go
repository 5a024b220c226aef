package core

import (
	"errors"
	"fmt"
)

// ErrNegativeDelay reports an ExecutionPolicy constructed with a delay below
// zero. It is returned (or panicked, for the decorator forms) before any
// goroutine is spawned.
var ErrNegativeDelay = errors.New("sew: negative delay")

// PanicError wraps a panic recovered from a dispatched call.
//
// Joined and capturing calls re-raise the panic on the calling goroutine with
// a *PanicError as the panic value, so the call site behaves like a direct
// synchronous call. Fire-and-forget calls route it to the PanicHandler
// instead.
type PanicError struct {
	// Value is the value recovered from the panicking target.
	Value any

	// Stack is the stack trace captured on the spawned goroutine.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sew: dispatched call panicked: %v", e.Value)
}

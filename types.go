package sew

import "github.com/Coal0/Sew/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the sew package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// TaskWithResult is a unit of work that produces a value and an error
type TaskWithResult[T any] = core.TaskWithResult[T]

// ExecutionPolicy describes how a dispatched call runs
type ExecutionPolicy = core.ExecutionPolicy

// Dispatcher spawns one goroutine per call under an ExecutionPolicy
type Dispatcher = core.Dispatcher

// DispatcherConfig holds optional dispatcher handlers
type DispatcherConfig = core.DispatcherConfig

// Handle owns one dispatched call
type Handle = core.Handle

// ResultHandle carries the captured return value of one dispatched call
type ResultHandle[T any] = core.ResultHandle[T]

// PanicError wraps a panic recovered from a dispatched call
type PanicError = core.PanicError

// LifetimeTracker accounts for in-flight non-daemon calls
type LifetimeTracker = core.LifetimeTracker

// Logger is the structured logging interface used for failure reporting
type Logger = core.Logger

// Field is a key-value pair for structured logging
type Field = core.Field

// ErrNegativeDelay reports a policy constructed with a delay below zero
var ErrNegativeDelay = core.ErrNegativeDelay

// Convenience constructors re-exported from core
var (
	F                       = core.F
	NewDispatcher           = core.NewDispatcher
	MustDispatcher          = core.MustDispatcher
	DefaultDispatcherConfig = core.DefaultDispatcherConfig
	DefaultPolicy           = core.DefaultPolicy
	JoinedPolicy            = core.JoinedPolicy
	DaemonicPolicy          = core.DaemonicPolicy
	CapturedPolicy          = core.CapturedPolicy
	LoadPolicyFile          = core.LoadPolicyFile
	ParsePolicies           = core.ParsePolicies
)

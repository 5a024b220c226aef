package core

import (
	"context"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling fire-and-forget panics
// =============================================================================

// PanicHandler is called when a non-joined call's target panics.
//
// Joined and capturing calls surface the panic to their caller instead, so
// the handler only ever sees failures that no goroutine is waiting on.
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a fire-and-forget target panics.
	//
	// Parameters:
	// - ctx: The context the target was called with
	// - mode: The dispatch mode ("thread", "delay_daemon", ...)
	// - panicInfo: The panic value recovered from the target
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, mode string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler reports fire-and-forget failures through a Logger.
// This is the log-and-continue policy: the process keeps running and the
// caller never observes the failure.
type DefaultPanicHandler struct {
	logger Logger
}

// NewDefaultPanicHandler creates a handler reporting through the given
// logger. A nil logger falls back to the standard DefaultLogger.
func NewDefaultPanicHandler(logger Logger) *DefaultPanicHandler {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &DefaultPanicHandler{logger: logger}
}

// HandlePanic logs the panic value and stack trace.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, mode string, panicInfo any, stackTrace []byte) {
	h.logger.Error("dispatched call panicked",
		F("mode", mode),
		F("panic", panicInfo),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting dispatch metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// All methods are optional; implementations should handle nil receivers gracefully.
// Methods should be non-blocking and fast to avoid impacting call execution performance.
type Metrics interface {
	// RecordDispatch records that a call was dispatched.
	//
	// Parameters:
	// - mode: The dispatch mode ("thread", "delay_join", ...)
	RecordDispatch(mode string)

	// RecordCallDuration records how long a target took to execute.
	// The configured start delay is not included.
	//
	// Parameters:
	// - mode: The dispatch mode
	// - duration: How long the target ran
	RecordCallDuration(mode string, duration time.Duration)

	// RecordCallPanic records that a target panicked during execution.
	//
	// Parameters:
	// - mode: The dispatch mode
	RecordCallPanic(mode string)

	// RecordInFlight records the current number of spawned goroutines that
	// have not terminated, including those still in their start delay.
	//
	// Parameters:
	// - mode: The dispatch mode
	// - count: The dispatcher's current in-flight call count
	RecordInFlight(mode string, count int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordDispatch is a no-op.
func (m *NilMetrics) RecordDispatch(mode string) {
}

// RecordCallDuration is a no-op.
func (m *NilMetrics) RecordCallDuration(mode string, duration time.Duration) {
}

// RecordCallPanic is a no-op.
func (m *NilMetrics) RecordCallPanic(mode string) {
}

// RecordInFlight is a no-op.
func (m *NilMetrics) RecordInFlight(mode string, count int) {
}

// =============================================================================
// DispatcherConfig: Configuration for Dispatcher
// =============================================================================

// DispatcherConfig holds configuration options for Dispatcher.
// All handlers are optional; if not provided, default implementations will be used.
type DispatcherConfig struct {
	// Logger receives dispatcher lifecycle logs. Defaults to DefaultLogger.
	Logger Logger

	// PanicHandler is called when a fire-and-forget target panics.
	// Defaults to a DefaultPanicHandler over Logger.
	PanicHandler PanicHandler

	// Metrics is called to record dispatch metrics. Defaults to NilMetrics.
	Metrics Metrics

	// Tracker accounts for non-daemon in-flight calls.
	// Defaults to the process-wide tracker.
	Tracker *LifetimeTracker
}

// DefaultDispatcherConfig returns a config with default handlers.
func DefaultDispatcherConfig() *DispatcherConfig {
	logger := NewDefaultLogger()
	return &DispatcherConfig{
		Logger:       logger,
		PanicHandler: NewDefaultPanicHandler(logger),
		Metrics:      &NilMetrics{},
		Tracker:      DefaultTracker(),
	}
}

package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/Coal0/Sew/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	callsTotal          *prom.CounterVec
	callDurationSeconds *prom.HistogramVec
	callPanicTotal      *prom.CounterVec
	callsInFlight       *prom.GaugeVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "sew"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	callsVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "calls_total",
		Help:      "Total number of dispatched calls.",
	}, []string{"mode"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "Target execution duration in seconds, excluding the start delay.",
		Buckets:   buckets,
	}, []string{"mode"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "call_panic_total",
		Help:      "Total number of target panics.",
	}, []string{"mode"})
	inFlightVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "calls_in_flight",
		Help:      "Spawned goroutines that have not terminated, including delayed starts.",
	}, []string{"mode"})

	var err error
	if callsVec, err = registerCollector(reg, callsVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if inFlightVec, err = registerCollector(reg, inFlightVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		callsTotal:          callsVec,
		callDurationSeconds: durationVec,
		callPanicTotal:      panicVec,
		callsInFlight:       inFlightVec,
	}, nil
}

// RecordDispatch records a dispatched call.
func (m *MetricsExporter) RecordDispatch(mode string) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(normalizeLabel(mode, "unknown")).Inc()
}

// RecordCallDuration records target execution duration.
func (m *MetricsExporter) RecordCallDuration(mode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.callDurationSeconds.WithLabelValues(normalizeLabel(mode, "unknown")).Observe(duration.Seconds())
}

// RecordCallPanic records target panic events.
func (m *MetricsExporter) RecordCallPanic(mode string) {
	if m == nil {
		return
	}
	m.callPanicTotal.WithLabelValues(normalizeLabel(mode, "unknown")).Inc()
}

// RecordInFlight records the dispatcher's current in-flight call count.
func (m *MetricsExporter) RecordInFlight(mode string, count int) {
	if m == nil {
		return
	}
	m.callsInFlight.WithLabelValues(normalizeLabel(mode, "unknown")).Set(float64(count))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}

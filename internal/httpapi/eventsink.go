package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"ttsd/internal/manager"
	"ttsd/pkg/types"
)

var (
	synthResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "synthesize",
			Name:      "results_total",
			Help:      "Completed guarded invocations by outcome",
		},
		[]string{"outcome"},
	)

	synthAttemptFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "synthesize",
			Name:      "attempt_failures_total",
			Help:      "Failed backend attempts, including retried ones",
		},
	)

	synthDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ttsd",
			Subsystem: "synthesize",
			Name:      "duration_seconds",
			Help:      "Duration of successful invocations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	modelStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ttsd",
			Subsystem: "model",
			Name:      "state",
			Help:      "Current lifecycle state (1 for the active state)",
		},
		[]string{"state"},
	)

	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Completed load attempts by result",
		},
		[]string{"result"},
	)

	sidecarEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "sidecar",
			Name:      "events_total",
			Help:      "Sidecar process lifecycle events",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(synthResultsTotal, synthAttemptFailures, synthDuration,
		modelStateGauge, modelLoadsTotal, sidecarEventsTotal)
}

// lifecycleStates enumerates every gauge label so scrapes always see the
// inactive states at 0.
var lifecycleStates = []types.ModelState{
	types.StateUninitialized,
	types.StateLoading,
	types.StateReady,
	types.StateError,
	types.StateDegraded,
}

// PromPublisher adapts manager events to the Prometheus collectors above.
// Install it with Manager.SetEventPublisher.
type PromPublisher struct{}

// NewPromPublisher returns an event sink with the state gauge primed.
func NewPromPublisher() *PromPublisher {
	setStateGauge(string(types.StateUninitialized))
	return &PromPublisher{}
}

// Publish implements manager.EventPublisher.
func (*PromPublisher) Publish(e manager.Event) {
	switch e.Name {
	case "synthesize_ok":
		synthResultsTotal.WithLabelValues("ok").Inc()
		if ms, ok := e.Fields["dur_ms"].(int); ok {
			synthDuration.Observe(float64(ms) / 1000.0)
		}
	case "synthesize_fallback":
		synthResultsTotal.WithLabelValues("fallback").Inc()
	case "attempt_fail":
		synthAttemptFailures.Inc()
	case "state_change":
		if to, ok := e.Fields["to"].(string); ok {
			setStateGauge(to)
		}
	case "load_ready":
		modelLoadsTotal.WithLabelValues("ok").Inc()
	case "load_error":
		modelLoadsTotal.WithLabelValues("error").Inc()
	case "spawn_start", "spawn_ready", "spawn_timeout", "spawn_exit", "spawn_stop":
		sidecarEventsTotal.WithLabelValues(e.Name).Inc()
	}
}

func setStateGauge(active string) {
	for _, s := range lifecycleStates {
		v := 0.0
		if string(s) == active {
			v = 1.0
		}
		modelStateGauge.WithLabelValues(string(s)).Set(v)
	}
}

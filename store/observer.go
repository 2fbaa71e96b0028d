package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer is told about every lifecycle transition. Elapsed is zero for
// PhasePending and the call duration otherwise.
type Observer interface {
	Observe(op string, phase Phase, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Observe(string, Phase, time.Duration) {}

// PrometheusObserver exports operation transitions as Prometheus metrics.
type PrometheusObserver struct {
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inflight    *prometheus.GaugeVec
}

// NewPrometheusObserver registers the store metrics with reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	f := promauto.With(reg)
	return &PrometheusObserver{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "posty",
			Subsystem: "store",
			Name:      "transitions_total",
			Help:      "Operation lifecycle transitions by operation and phase.",
		}, []string{"op", "phase"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "posty",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Time from dispatch to settlement.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op", "phase"}),
		inflight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "posty",
			Subsystem: "store",
			Name:      "operations_inflight",
			Help:      "Outstanding operations.",
		}, []string{"op"}),
	}
}

func (o *PrometheusObserver) Observe(op string, phase Phase, elapsed time.Duration) {
	o.transitions.WithLabelValues(op, phase.String()).Inc()
	switch phase {
	case PhasePending:
		o.inflight.WithLabelValues(op).Inc()
	case PhaseFulfilled, PhaseRejected, PhaseSuperseded:
		o.inflight.WithLabelValues(op).Dec()
		o.duration.WithLabelValues(op, phase.String()).Observe(elapsed.Seconds())
	}
}

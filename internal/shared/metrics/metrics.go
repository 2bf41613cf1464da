package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts and times service operations.
type Recorder interface {
	Observe(op string, start time.Time, err error)
}

type promRecorder struct {
	ops *prometheus.CounterVec
	dur *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer, namespace string) Recorder {
	f := promauto.With(reg)
	return &promRecorder{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by name and result.",
		}, []string{"op", "result"}),
		dur: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (r *promRecorder) Observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ops.WithLabelValues(op, result).Inc()
	r.dur.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Nop discards observations.
type Nop struct{}

func (Nop) Observe(string, time.Time, error) {}

package async

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels recorded on operations_total.
const (
	resultOK       = "ok"
	resultError    = "error"
	resultCanceled = "canceled"
	resultRejected = "rejected"
)

// metrics wraps the Prometheus collectors a Pool records into.
type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, namespace string) (*metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "bcrypt"
	}

	operations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pool",
		Name:      "operations_total",
		Help:      "Total number of bcrypt pool operations partitioned by operation and result.",
	}, []string{"op", "result"}))
	if err != nil {
		return nil, fmt.Errorf("register operations collector: %w", err)
	}

	// bcrypt latency spans cost 4 (~1ms) to well past cost 14 (~1s).
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pool",
		Name:      "operation_duration_seconds",
		Help:      "Histogram of bcrypt computation latencies in seconds partitioned by operation.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"op"}))
	if err != nil {
		return nil, fmt.Errorf("register duration collector: %w", err)
	}

	inFlight, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pool",
		Name:      "in_flight",
		Help:      "Current number of bcrypt computations holding a worker slot.",
	}))
	if err != nil {
		return nil, fmt.Errorf("register in-flight collector: %w", err)
	}

	return &metrics{operations: operations, duration: duration, inFlight: inFlight}, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor so several pools can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		return c, err
	}
	existing, ok := already.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("existing collector has wrong type %T", already.ExistingCollector)
	}
	return existing, nil
}

func (m *metrics) observe(op, result string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, result).Inc()
	if result == resultOK || result == resultError {
		m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records assistant pipeline outcomes. A nil *Metrics records nothing.
type Metrics struct {
	replies  *prometheus.CounterVec
	failures *prometheus.CounterVec
	retries  prometheus.Counter
	latency  prometheus.Histogram
}

// NewMetrics creates the assistant metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskflow",
				Subsystem: "assistant",
				Name:      "replies_total",
				Help:      "Assistant replies by classified mode",
			},
			[]string{"mode"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskflow",
				Subsystem: "assistant",
				Name:      "failures_total",
				Help:      "Assistant calls that did not produce a reply",
			},
			[]string{"reason"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "taskflow",
				Subsystem: "assistant",
				Name:      "retries_total",
				Help:      "Model calls retried after provider throttling",
			},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "taskflow",
				Subsystem: "assistant",
				Name:      "latency_seconds",
				Help:      "Model call latency including retries",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.replies, m.failures, m.retries, m.latency)
	}
	return m
}

func (m *Metrics) observeReply(mode Mode, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(string(mode)).Inc()
	m.latency.Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

package lifecycle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts lifecycle outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	transitions *prometheus.CounterVec
	lag         prometheus.Histogram
	scheduled   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_lifecycle_transitions_total",
			Help: "Scheduled order transitions by target status and result.",
		}, []string{"status", "result"}),
		lag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_lifecycle_lag_seconds",
			Help:    "Delay between a transition's due time and its execution.",
			Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 300},
		}),
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_lifecycle_orders_scheduled_total",
			Help: "Orders whose transitions were queued.",
		}),
	}
	reg.MustRegister(m.transitions, m.lag, m.scheduled)
	return m
}

func (m *Metrics) observe(status, result string, lag time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status, result).Inc()
	if lag >= 0 {
		m.lag.Observe(lag.Seconds())
	}
}

func (m *Metrics) incScheduled() {
	if m == nil {
		return
	}
	m.scheduled.Inc()
}

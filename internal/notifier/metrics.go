package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

var _ prometheus.Collector = &Metrics{}

// Metrics records notifier invocations. A nil Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	nextTrigger *prometheus.GaugeVec
}

func NewMetrics(namespace, subsystem string, constLabels prometheus.Labels) *Metrics {
	return &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "invocations_total",
			Help:        "total number of notifier invocations",
			ConstLabels: constLabels,
		}, []string{"notifier", "outcome"}),
		nextTrigger: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "next_trigger_timestamp_seconds",
			Help:        "time of the notifier's next trigger",
			ConstLabels: constLabels,
		}, []string{"notifier"}),
	}
}

func (m *Metrics) observe(r Result) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(r.Notifier, string(r.Outcome)).Inc()
	if r.Trigger != "" && r.Next != nil {
		m.nextTrigger.WithLabelValues(r.Notifier).Set(float64(r.Next.Start.Truncate(time.Minute).Unix()))
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.invocations.Describe(ch)
	m.nextTrigger.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.invocations.Collect(ch)
	m.nextTrigger.Collect(ch)
}

// Invocations returns the counter of the notifier's invocations with the provided outcome.
func (m *Metrics) Invocations(notifier string, outcome Outcome) prometheus.Counter {
	return m.invocations.WithLabelValues(notifier, string(outcome))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the publishing module.
// Tracks preflight outcomes and Clear Cooperation timer states.
type Metrics struct {
	PreflightsTotal *prometheus.CounterVec
	ViolationsTotal prometheus.Counter
	TimerStates     *prometheus.CounterVec
}

// New creates a new Metrics instance with all publishing module metrics registered.
func New() *Metrics {
	return &Metrics{
		PreflightsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_publishing_preflights_total",
			Help: "Total publishing preflights by content type and outcome",
		}, []string{"content_type", "outcome"}),
		ViolationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hearth_publishing_violations_total",
			Help: "Total violations surfaced by preflights",
		}),
		TimerStates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_publishing_timer_reads_total",
			Help: "Total Clear Cooperation timer reads by status",
		}, []string{"status"}),
	}
}

// ObservePreflight records one completed preflight.
func (m *Metrics) ObservePreflight(contentType string, pass bool, violations int) {
	outcome := "fail"
	if pass {
		outcome = "pass"
	}
	m.PreflightsTotal.WithLabelValues(contentType, outcome).Inc()
	m.ViolationsTotal.Add(float64(violations))
}

// ObserveTimer records one Clear Cooperation timer read.
func (m *Metrics) ObserveTimer(status string) {
	m.TimerStates.WithLabelValues(status).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the consent module.
// Tracks check outcomes and evidence capture volume.
type Metrics struct {
	ChecksTotal      *prometheus.CounterVec
	CheckDuration    prometheus.Histogram
	RecordsCaptured  prometheus.Counter
	GlobalStopsTotal prometheus.Counter
}

// New creates a new Metrics instance with all consent module metrics registered.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_consent_checks_total",
			Help: "Total consent checks by channel and outcome",
		}, []string{"channel", "outcome"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hearth_consent_check_duration_seconds",
			Help:    "Duration of consent checks including snapshot loading",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RecordsCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hearth_consent_records_captured_total",
			Help: "Total consent records captured",
		}),
		GlobalStopsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hearth_consent_global_stops_total",
			Help: "Total channel-wide STOP opt-outs recorded",
		}),
	}
}

// ObserveCheck records one completed consent check.
func (m *Metrics) ObserveCheck(channel string, allowed bool, start time.Time) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.ChecksTotal.WithLabelValues(channel, outcome).Inc()
	m.CheckDuration.Observe(time.Since(start).Seconds())
}

// IncrementCaptured records a successful evidence capture.
func (m *Metrics) IncrementCaptured() {
	m.RecordsCaptured.Inc()
}

// IncrementGlobalStops records a channel-wide opt-out.
func (m *Metrics) IncrementGlobalStops() {
	m.GlobalStopsTotal.Inc()
}

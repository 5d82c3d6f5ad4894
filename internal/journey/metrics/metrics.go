package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the journey module.
// Tracks event evaluation volume and match rates.
type Metrics struct {
	EventsTotal      *prometheus.CounterVec
	MatchesTotal     prometheus.Counter
	SimulationsTotal prometheus.Counter
}

// New creates a new Metrics instance with all journey module metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_journey_events_total",
			Help: "Total domain events evaluated against journeys, by trigger",
		}, []string{"trigger"}),
		MatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hearth_journey_matches_total",
			Help: "Total journeys matched by incoming events",
		}),
		SimulationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hearth_journey_simulations_total",
			Help: "Total ad-hoc journey simulations requested",
		}),
	}
}

// ObserveEvent records one evaluated event and how many journeys it matched.
func (m *Metrics) ObserveEvent(trigger string, matches int) {
	m.EventsTotal.WithLabelValues(trigger).Inc()
	m.MatchesTotal.Add(float64(matches))
}

// IncrementSimulations records one ad-hoc simulation.
func (m *Metrics) IncrementSimulations() {
	m.SimulationsTotal.Inc()
}

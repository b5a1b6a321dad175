package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ScrollAttempts      prometheus.Counter
	ScrollStalls        prometheus.Counter
	LoadedCards         prometheus.Gauge
	CardsProcessed      *prometheus.CounterVec
	FailureTags         *prometheus.CounterVec
	FieldsCaptured      *prometheus.CounterVec
	CardOpenDuration    prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScrollAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadsweep_scroll_attempts_total",
			Help: "Total number of feed scroll attempts.",
		}),
		ScrollStalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadsweep_scroll_stalls_total",
			Help: "Scroll attempts that did not grow the loaded card count.",
		}),
		LoadedCards: factory.NewGauge(prometheus.GaugeOpts{
			Name: "leadsweep_loaded_cards",
			Help: "Current number of cards loaded in the feed.",
		}),
		CardsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadsweep_cards_processed_total",
			Help: "Total number of cards processed.",
		}, []string{"outcome"}), // scraped, failed
		FailureTags: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadsweep_card_failures_total",
			Help: "Card failures by tag.",
		}, []string{"tag"}),
		FieldsCaptured: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leadsweep_fields_captured_total",
			Help: "Non-empty listing fields captured.",
		}, []string{"field"}),
		CardOpenDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadsweep_card_open_duration_seconds",
			Help:    "Time spent opening a card's detail panel.",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 1, 2, 5},
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) IncCardOutcome(outcome string) {
	m.CardsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncFailureTag(tag string) {
	m.FailureTags.WithLabelValues(tag).Inc()
}

func (m *Metrics) IncFieldCaptured(field string) {
	m.FieldsCaptured.WithLabelValues(field).Inc()
}

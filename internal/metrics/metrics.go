// Package metrics exposes the Prometheus collectors of the frame server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the collectors.
const (
	OutcomeOK            = "ok"
	OutcomeIntro         = "intro"
	OutcomeClientError   = "client_error"
	OutcomeUpstreamError = "upstream_error"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	frameRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "degenframe",
			Subsystem: "frame",
			Name:      "requests_total",
			Help:      "Total number of frame renders by route and outcome.",
		},
		[]string{"route", "outcome"},
	)

	renderedCards = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "degenframe",
			Subsystem: "frame",
			Name:      "rendered_cards",
			Help:      "Number of cards shown per data render.",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "degenframe",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream API calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "degenframe",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"endpoint"},
	)
)

func init() {
	Registry.MustRegister(
		frameRequests,
		renderedCards,
		upstreamRequests,
		upstreamDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveFrame records one frame response.
func ObserveFrame(route string, outcome string, cards int) {
	frameRequests.WithLabelValues(route, outcome).Inc()
	if outcome == OutcomeOK {
		renderedCards.Observe(float64(cards))
	}
}

// ObserveUpstream records one upstream API call.
func ObserveUpstream(endpoint string, outcome string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

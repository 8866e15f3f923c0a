// Package metrics holds the Prometheus collectors of the recommender.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeSkipped     = "skipped"
)

var (
	// HTTPRequests counts served requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommender_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "status"})

	// GeocodeRequests counts reverse-geocoding lookups by outcome.
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommender_geocode_requests_total",
		Help: "Reverse geocoding lookups, by outcome.",
	}, []string{"outcome"})

	// SentimentRequests counts sentiment annotations by strategy and outcome.
	SentimentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommender_sentiment_requests_total",
		Help: "Review sentiment annotations, by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	// SearchResults observes the size of filtered result sets.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommender_search_results",
		Help:    "Number of listings returned per search.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
)

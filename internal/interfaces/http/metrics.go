package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailscan_assessments_total",
		Help: "Assessments served, labeled by outcome.",
	}, []string{"outcome"})

	alertsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retailscan_alerts_generated_total",
		Help: "Alerts generated, labeled by priority.",
	}, []string{"priority"})

	assessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retailscan_assess_duration_seconds",
		Help:    "Wall time of one assess request.",
		Buckets: prometheus.DefBuckets,
	})
)

// Package metrics registers the gateway's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts submissions by scoring mode and outcome.
	// Outcomes: ok, busy, validation_error, network_error, timeout_error,
	// internal.
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_predictions_total",
		Help: "Prediction submissions by scoring mode and outcome.",
	}, []string{"mode", "outcome"})

	// PredictionDuration measures the predictor call alone, validation and
	// history writes excluded.
	PredictionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_prediction_duration_seconds",
		Help:    "Latency of local or remote prediction calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	HistoryRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_history_records",
		Help: "Records held in the session history store.",
	})

	HistoryExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_history_exports_total",
		Help: "CSV exports served.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diabetes_risk_assessments_total",
		Help: "Total number of completed assessments by form variant and predicted label.",
	}, []string{"variant", "label"})
	AssessmentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diabetes_risk_assessments_rejected_total",
		Help: "Total number of submissions rejected by range or category checks.",
	}, []string{"variant"})
	PredictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabetes_risk_predictions_failed_total",
		Help: "Total number of classifier failures.",
	})
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "diabetes_risk_inference_duration_seconds",
		Help:    "Duration of a single classifier call.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})
	RecordsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabetes_risk_records_stored_total",
		Help: "Total number of assessments stored in the database.",
	})
	RecordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabetes_risk_records_failed_total",
		Help: "Total number of assessments that could not be stored.",
	})
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabetes_risk_events_published_total",
		Help: "Total number of assessment events published to Redis.",
	})
	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabetes_risk_events_failed_total",
		Help: "Total number of assessment events that could not be published.",
	})
)

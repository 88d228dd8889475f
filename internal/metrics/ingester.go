package metrics

import (
	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "runs_total",
		Help:      "Count of finished ingestion runs by final and failed stage.",
	}, []string{"trigger", "stage", "failed_stage"})

	ingesterRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "run_duration_seconds",
		Help:      "Duration of ingestion runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"stage"})

	ingesterTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "transactions_total",
		Help:      "Count of transaction upserts by outcome.",
	}, []string{"status"})

	ingesterTipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "tip_height",
		Help:      "Height of the last successfully upserted tip block.",
	})

	ingesterSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "submissions_total",
		Help:      "Count of ingestion submissions by trigger and outcome.",
	}, []string{"trigger", "status"})

	ingesterQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockgraph",
		Subsystem: "ingester",
		Name:      "queue_depth",
		Help:      "Number of ingestion jobs waiting for the worker.",
	})
)

// Ingester tracks metrics for the ingestion queue and its runs.
type Ingester struct{}

// NewIngester creates the ingestion run and queue metrics collector.
func NewIngester() *Ingester {
	return &Ingester{}
}

// ObserveRun records the outcome of a finished run.
func (m Ingester) ObserveRun(run model.IngestionRun) {
	trigger := run.Trigger
	if trigger == "" {
		trigger = "unknown"
	}
	ingesterRunsTotal.WithLabelValues(trigger, string(run.Stage), string(run.FailedStage)).Inc()
	ingesterRunDuration.WithLabelValues(string(run.Stage)).Observe(run.Duration().Seconds())

	if run.TxLoaded > 0 {
		ingesterTransactionsTotal.WithLabelValues("success").Add(float64(run.TxLoaded))
	}
	if run.TxFailed > 0 {
		ingesterTransactionsTotal.WithLabelValues("error").Add(float64(run.TxFailed))
	}
	if !run.Failed() {
		ingesterTipHeight.Set(float64(run.Height))
	}
}

// ObserveSubmit records a queue submission attempt.
func (m Ingester) ObserveSubmit(trigger string, err error) {
	ingesterSubmissionsTotal.WithLabelValues(trigger, statusOf(err)).Inc()
}

// SetQueueDepth records the number of pending jobs.
func (m Ingester) SetQueueDepth(depth int) {
	ingesterQueueDepth.Set(float64(depth))
}

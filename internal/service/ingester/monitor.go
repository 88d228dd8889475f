package ingester

import (
	"context"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"go.uber.org/zap"
)

// Monitor reports finished runs: it logs them, records metrics and, when a
// journal is configured, persists them.
type Monitor struct {
	results <-chan model.IngestionRun
	metrics RunMetrics
	journal RunJournal
	logger  *zap.Logger
}

// NewMonitor builds a Monitor. journal may be nil.
func NewMonitor(results <-chan model.IngestionRun, metrics RunMetrics, journal RunJournal, logger *zap.Logger) *Monitor {
	return &Monitor{
		results: results,
		metrics: metrics,
		journal: journal,
		logger:  logger.Named("monitor"),
	}
}

// Run drains results until the channel is closed.
func (m *Monitor) Run(ctx context.Context) {
	for run := range m.results {
		m.report(ctx, run)
	}
}

func (m *Monitor) report(ctx context.Context, run model.IngestionRun) {
	fields := []zap.Field{
		zap.String("run_id", run.ID),
		zap.String("trigger", run.Trigger),
		zap.Uint64("height", run.Height),
		zap.String("hash", run.Hash),
		zap.Duration("duration", run.Duration()),
	}

	switch {
	case run.Failed():
		m.logger.Error("ingestion run failed",
			append(fields, zap.String("failed_stage", string(run.FailedStage)), zap.Error(run.Err))...)
	case run.TxFailed > 0:
		m.logger.Warn("ingestion run finished with transaction failures",
			append(fields, zap.Int("tx_loaded", run.TxLoaded), zap.Int("tx_failed", run.TxFailed), zap.Error(run.Err))...)
	default:
		m.logger.Info("ingestion run finished",
			append(fields,
				zap.Bool("block_created", run.BlockCreated),
				zap.Bool("linked", run.Linked),
				zap.Int("tx_loaded", run.TxLoaded))...)
	}

	m.metrics.ObserveRun(run)

	if m.journal == nil {
		return
	}
	journalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalWriteTimeout)
	defer cancel()
	if err := m.journal.InsertIngestionRun(journalCtx, run); err != nil {
		m.logger.Warn("journal ingestion run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

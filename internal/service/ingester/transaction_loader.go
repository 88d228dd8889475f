package ingester

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/goodnatureofminers/blockgraph/pkg/workerpool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// LoadReport summarizes one transaction load. Err aggregates every item failure.
type LoadReport struct {
	Loaded int
	Failed int
	Err    error
}

type transactionLoader struct {
	repo        GraphRepository
	workerCount int
	logger      *zap.Logger
}

// Load upserts every txid and associates it with the block at height. A
// failing txid does not stop the rest.
func (l *transactionLoader) Load(ctx context.Context, height uint64, txids []string) LoadReport {
	var loaded atomic.Int64
	err := workerpool.ProcessAll(ctx, l.workerCount, txids, func(ctx context.Context, txid string) error {
		if err := l.repo.UpsertTransaction(ctx, txid, height); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", txid, err)
		}
		loaded.Add(1)
		return nil
	})

	report := LoadReport{
		Loaded: int(loaded.Load()),
		Err:    err,
	}
	report.Failed = len(txids) - report.Loaded

	if err != nil {
		l.logger.Warn("transactions not fully loaded",
			zap.Uint64("height", height),
			zap.Int("loaded", report.Loaded),
			zap.Int("failed", report.Failed),
			zap.Int("errors", len(multierr.Errors(err))),
			zap.Error(err))
		return report
	}

	l.logger.Debug("transactions loaded", zap.Uint64("height", height), zap.Int("loaded", report.Loaded))
	return report
}

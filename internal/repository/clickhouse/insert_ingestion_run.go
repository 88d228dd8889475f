package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/goodnatureofminers/blockgraph/pkg/safe"
)

const insertIngestionRunQuery = `
INSERT INTO ingestion_runs (
	run_id,
	trigger,
	stage,
	failed_stage,
	height,
	hash,
	block_created,
	linked,
	successor_linked,
	tx_loaded,
	tx_failed,
	error,
	started_at,
	finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertIngestionRun stores one finished ingestion run.
func (r *Repository) InsertIngestionRun(ctx context.Context, run model.IngestionRun) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_ingestion_run", err, start)
	}()

	args, err := ingestionRunArgs(run)
	if err != nil {
		err = fmt.Errorf("insert ingestion run %s: %w", run.ID, err)
		return err
	}
	if err = r.conn.Exec(ctx, insertIngestionRunQuery, args...); err != nil {
		err = fmt.Errorf("insert ingestion run %s: %w", run.ID, err)
		return err
	}
	return nil
}

func ingestionRunArgs(run model.IngestionRun) ([]any, error) {
	txLoaded, err := safe.Uint32(run.TxLoaded)
	if err != nil {
		return nil, fmt.Errorf("tx_loaded: %w", err)
	}
	txFailed, err := safe.Uint32(run.TxFailed)
	if err != nil {
		return nil, fmt.Errorf("tx_failed: %w", err)
	}

	errText := ""
	if run.Err != nil {
		errText = run.Err.Error()
	}
	return []any{
		run.ID,
		run.Trigger,
		string(run.Stage),
		string(run.FailedStage),
		run.Height,
		run.Hash,
		boolToUInt8(run.BlockCreated),
		boolToUInt8(run.Linked),
		boolToUInt8(run.SuccessorLinked),
		txLoaded,
		txFailed,
		errText,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	}, nil
}

func boolToUInt8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

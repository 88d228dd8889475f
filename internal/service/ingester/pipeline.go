package ingester

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"go.uber.org/zap"
)

// Pipeline ingests the current chain tip into the graph store: it fetches the
// tip block, upserts it, links it to its neighbours and loads its transactions.
type Pipeline struct {
	source NodeSource
	repo   GraphRepository
	linker BlockLinker
	loader TransactionLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewPipeline builds a Pipeline. txWorkers bounds concurrent transaction upserts.
func NewPipeline(source NodeSource, repo GraphRepository, txWorkers int, logger *zap.Logger) *Pipeline {
	if txWorkers <= 0 {
		txWorkers = defaultTxWorkerCount
	}
	logger = logger.Named("pipeline")

	return &Pipeline{
		source: source,
		repo:   repo,
		linker: &relationshipLinker{
			repo:   repo,
			logger: logger.Named("linker"),
		},
		loader: &transactionLoader{
			repo:        repo,
			workerCount: txWorkers,
			logger:      logger.Named("transactionLoader"),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Run performs one ingestion of the live tip. It never returns an error; the
// outcome, including the failing stage, is carried by the returned run.
func (p *Pipeline) Run(ctx context.Context, job model.IngestionJob) model.IngestionRun {
	run := model.IngestionRun{
		ID:        job.ID,
		Trigger:   job.Trigger,
		Stage:     model.StageIdle,
		StartedAt: p.now(),
	}
	logger := p.logger.With(zap.String("run_id", job.ID), zap.String("trigger", job.Trigger))

	fail := func(err error) model.IngestionRun {
		run.FailedStage = run.Stage
		run.Stage = model.StageFailed
		run.Err = err
		run.FinishedAt = p.now()
		return run
	}

	run.Stage = model.StageFetchingTip
	chainHeight, err := p.source.ChainHeight(ctx)
	if err != nil {
		return fail(fmt.Errorf("fetch chain height: %w", err))
	}
	bestHash, err := p.source.BestBlockHash(ctx)
	if err != nil {
		return fail(fmt.Errorf("fetch best block hash: %w", err))
	}

	run.Stage = model.StageFetchingBlock
	block, err := p.source.BlockByHash(ctx, bestHash)
	if err != nil {
		return fail(fmt.Errorf("fetch block %s: %w", bestHash, err))
	}
	if block.Height != chainHeight {
		logger.Debug("tip moved between calls, using block height",
			zap.Uint64("chain_height", chainHeight),
			zap.Uint64("block_height", block.Height))
	}
	run.Height = block.Height
	run.Hash = block.Hash

	run.Stage = model.StageUpsertingBlock
	upserted, err := p.repo.UpsertBlock(ctx, model.BlockFromNode(*block))
	if err != nil {
		return fail(fmt.Errorf("upsert block %d: %w", block.Height, err))
	}
	run.BlockCreated = upserted.Created

	run.Stage = model.StageLinking
	run.Linked = p.linker.Link(ctx, block.Height)
	// heals the edge a successor stored before this block could not create
	run.SuccessorLinked = p.linker.Link(ctx, block.Height+1)

	run.Stage = model.StageLoadingTransactions
	report := p.loader.Load(ctx, block.Height, block.TxIDs)
	run.TxLoaded = report.Loaded
	run.TxFailed = report.Failed
	run.Err = report.Err

	run.Stage = model.StageDone
	run.FinishedAt = p.now()
	return run
}

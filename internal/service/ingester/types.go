package ingester

import (
	"context"

	"github.com/goodnatureofminers/blockgraph/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	NodeSource interface {
		ChainHeight(ctx context.Context) (uint64, error)
		BestBlockHash(ctx context.Context) (string, error)
		BlockByHash(ctx context.Context, hash string) (*model.NodeBlock, error)
	}
	GraphRepository interface {
		UpsertBlock(ctx context.Context, block model.Block) (model.UpsertedBlock, error)
		LinkBlocks(ctx context.Context, height uint64) (model.BlockLink, error)
		UpsertTransaction(ctx context.Context, txid string, height uint64) error
	}
	BlockLinker interface {
		Link(ctx context.Context, height uint64) bool
	}
	TransactionLoader interface {
		Load(ctx context.Context, height uint64, txids []string) LoadReport
	}
	Runner interface {
		Run(ctx context.Context, job model.IngestionJob) model.IngestionRun
	}
	Submitter interface {
		Submit(trigger string) (model.IngestionJob, error)
	}
	RunJournal interface {
		InsertIngestionRun(ctx context.Context, run model.IngestionRun) error
	}
	RunMetrics interface {
		ObserveRun(run model.IngestionRun)
	}
	QueueMetrics interface {
		ObserveSubmit(trigger string, err error)
		SetQueueDepth(depth int)
	}
)

package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Explorer interface {
		Block(ctx context.Context, height uint64) (model.BlockView, error)
		Transaction(ctx context.Context, txid string) (model.TransactionView, error)
	}
	Submitter interface {
		Submit(trigger string) (model.IngestionJob, error)
	}
	HTTPMetrics interface {
		ObserveRequest(route string, code int, started time.Time)
	}
	HealthChecker interface {
		VerifyConnectivity(ctx context.Context) error
	}
)

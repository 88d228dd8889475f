package explorer

import (
	"context"

	"github.com/goodnatureofminers/blockgraph/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	GraphReader interface {
		BlockByHeight(ctx context.Context, height uint64) (model.Block, error)
		TransactionByID(ctx context.Context, txid string) (model.TransactionView, error)
	}
)

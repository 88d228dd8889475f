// Package explorer answers point lookups against the block graph.
package explorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"go.uber.org/zap"
)

// Service serves read-only block and transaction lookups. It never writes.
type Service struct {
	reader GraphReader
	logger *zap.Logger
}

// NewService creates a Service reading from reader.
func NewService(reader GraphReader, logger *zap.Logger) *Service {
	return &Service{reader: reader, logger: logger.Named("explorer")}
}

// Block returns the block at height. Absence is model.ErrNotFound.
func (s *Service) Block(ctx context.Context, height uint64) (model.BlockView, error) {
	block, err := s.reader.BlockByHeight(ctx, height)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("block lookup failed", zap.Uint64("height", height), zap.Error(err))
		}
		return model.BlockView{}, fmt.Errorf("block %d: %w", height, err)
	}
	return model.BlockView{
		Height: block.Height,
		Hash:   block.Hash,
		Size:   block.Size,
		Time:   block.Time,
	}, nil
}

// Transaction returns the transaction with txid. Absence is model.ErrNotFound.
func (s *Service) Transaction(ctx context.Context, txid string) (model.TransactionView, error) {
	tx, err := s.reader.TransactionByID(ctx, txid)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("transaction lookup failed", zap.String("txid", txid), zap.Error(err))
		}
		return model.TransactionView{}, fmt.Errorf("transaction %s: %w", txid, err)
	}
	return tx, nil
}

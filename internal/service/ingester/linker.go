package ingester

import (
	"context"

	"go.uber.org/zap"
)

type relationshipLinker struct {
	repo   GraphRepository
	logger *zap.Logger
}

// Link connects the block at height to its predecessor. Store failures and
// absent endpoints are logged and reported as false.
func (l *relationshipLinker) Link(ctx context.Context, height uint64) bool {
	link, err := l.repo.LinkBlocks(ctx, height)
	if err != nil {
		l.logger.Warn("link blocks failed", zap.Uint64("height", height), zap.Error(err))
		return false
	}
	if !link.Linked {
		l.logger.Debug("block not linked, endpoint absent", zap.Uint64("height", height))
		return false
	}

	l.logger.Debug("block linked to predecessor",
		zap.Uint64("height", height),
		zap.Bool("created", link.Created))
	return true
}

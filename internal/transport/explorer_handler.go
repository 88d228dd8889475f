// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer
	store  HealthChecker
	logger *zap.Logger
}

// NewExplorerHandler returns an ExplorerHandler that reports the graph store's health.
func NewExplorerHandler(store HealthChecker, logger *zap.Logger) blockinsight7000v1.ExplorerServiceServer {
	return &ExplorerHandler{store: store, logger: logger.Named("explorerHandler")}
}

// Health reports healthy when the graph store accepts connections.
func (h *ExplorerHandler) Health(ctx context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	if err := h.store.VerifyConnectivity(ctx); err != nil {
		h.logger.Warn("graph store unreachable", zap.Error(err))
		return nil, status.Errorf(codes.Unavailable, "graph store unreachable: %v", err)
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: "graph store reachable",
	}, nil
}

//go:build !zmq

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

func startBlockSignal(_ context.Context, addr string, _ *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}
	return nil, errors.New("zmq block signal requires a build with -tags zmq")
}

//go:build zmq

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

const (
	hashBlockTopic   = "hashblock"
	blockSignalPoll  = 500 * time.Millisecond
	blockSignalRetry = time.Second
)

// startBlockSignal subscribes to bitcoind hashblock notifications. The returned
// channel coalesces bursts into a single pending signal.
func startBlockSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("create zmq socket: %w", err)
	}
	if err := sub.SetSubscribe(hashBlockTopic); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", hashBlockTopic, err)
	}
	if err := sub.Connect(addr); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("connect zmq %s: %w", addr, err)
	}

	logger = logger.Named("block_signal").With(zap.String("addr", addr))
	notify := make(chan struct{}, 1)
	poller := zmq4.NewPoller()
	poller.Add(sub, zmq4.POLLIN)

	go func() {
		defer func() {
			_ = sub.Close()
		}()
		for ctx.Err() == nil {
			polled, err := poller.Poll(blockSignalPoll)
			if err != nil {
				logger.Warn("zmq poll failed", zap.Error(err))
				time.Sleep(blockSignalRetry)
				continue
			}
			if len(polled) == 0 {
				continue
			}

			parts, err := sub.RecvMessageBytes(0)
			if err != nil {
				logger.Warn("zmq recv failed", zap.Error(err))
				continue
			}
			if len(parts) < 2 {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(parts)))
				continue
			}
			logger.Debug("block announced", zap.String("hash", hex.EncodeToString(parts[1])))

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	return notify, nil
}

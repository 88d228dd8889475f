package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type connectivityChecker interface {
	VerifyConnectivity(ctx context.Context) error
}

// waitForStore retries the connectivity check with exponential backoff until maxWait elapses.
// A non-positive maxWait checks once.
func waitForStore(ctx context.Context, store connectivityChecker, maxWait time.Duration, logger *zap.Logger) error {
	if maxWait <= 0 {
		return store.VerifyConnectivity(ctx)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxWait

	return backoff.RetryNotify(
		func() error {
			return store.VerifyConnectivity(ctx)
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("graph store not ready", zap.Error(err), zap.Duration("retry_in", next))
		},
	)
}

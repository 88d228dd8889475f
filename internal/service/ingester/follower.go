package ingester

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/clock"
	"github.com/goodnatureofminers/blockgraph/internal/model"
	"go.uber.org/zap"
)

// Follower submits ingestion runs on a fixed interval and whenever the node
// announces a new block.
type Follower struct {
	submitter Submitter
	interval  time.Duration
	signal    <-chan struct{}
	wait      func(context.Context, time.Duration, <-chan struct{}) (bool, error)
	logger    *zap.Logger
}

// NewFollower builds a Follower. At least one of interval and signal must be set.
func NewFollower(submitter Submitter, interval time.Duration, signal <-chan struct{}, logger *zap.Logger) (*Follower, error) {
	if interval <= 0 && signal == nil {
		return nil, errors.New("follower needs a refresh interval or a block signal")
	}
	return &Follower{
		submitter: submitter,
		interval:  interval,
		signal:    signal,
		wait:      clock.Wait,
		logger:    logger.Named("follower"),
	}, nil
}

// Run submits until ctx is canceled or the queue stops.
func (f *Follower) Run(ctx context.Context) error {
	for {
		signaled, err := f.wait(ctx, f.interval, f.signal)
		if err != nil {
			return err
		}

		trigger := model.TriggerInterval
		if signaled {
			trigger = model.TriggerBlockSignal
		}
		if stop := f.submit(trigger); stop {
			return nil
		}
	}
}

func (f *Follower) submit(trigger string) (stop bool) {
	job, err := f.submitter.Submit(trigger)
	switch {
	case errors.Is(err, ErrQueueFull):
		f.logger.Debug("ingestion queue full, skipping", zap.String("trigger", trigger))
	case errors.Is(err, ErrQueueStopped):
		f.logger.Info("ingestion queue stopped, follower exiting")
		return true
	case err != nil:
		f.logger.Warn("submit ingestion failed", zap.String("trigger", trigger), zap.Error(err))
	default:
		f.logger.Debug("ingestion submitted", zap.String("job_id", job.ID), zap.String("trigger", trigger))
	}
	return false
}

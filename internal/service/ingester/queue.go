package ingester

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var (
	ErrQueueFull    = errors.New("ingestion queue is full")
	ErrQueueStopped = errors.New("ingestion queue is stopped")
)

// Queue serializes ingestion runs on a single worker. Submissions never block.
type Queue struct {
	runner  Runner
	metrics QueueMetrics
	logger  *zap.Logger
	limiter ratelimit.Limiter
	newID   func() string
	now     func() time.Time

	jobs    chan model.IngestionJob
	results chan model.IngestionRun
	done    chan struct{}

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewQueue builds a Queue holding up to capacity pending jobs and starting at
// most runsPerSecond runs per second.
func NewQueue(runner Runner, metrics QueueMetrics, capacity, runsPerSecond int, logger *zap.Logger) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	if runsPerSecond <= 0 {
		runsPerSecond = defaultRunsPerSecond
	}

	return &Queue{
		runner:  runner,
		metrics: metrics,
		logger:  logger.Named("queue"),
		limiter: ratelimit.New(runsPerSecond, ratelimit.WithoutSlack),
		newID:   uuid.NewString,
		now:     time.Now,
		jobs:    make(chan model.IngestionJob, capacity),
		results: make(chan model.IngestionRun, capacity),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. Runs execute under a context detached from ctx's
// cancellation, so an accepted job always finishes.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true

	go q.work(context.WithoutCancel(ctx))
}

// Submit enqueues a run for trigger.
func (q *Queue) Submit(trigger string) (model.IngestionJob, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped {
		q.metrics.ObserveSubmit(trigger, ErrQueueStopped)
		return model.IngestionJob{}, ErrQueueStopped
	}

	job := model.IngestionJob{
		ID:          q.newID(),
		Trigger:     trigger,
		SubmittedAt: q.now(),
	}

	select {
	case q.jobs <- job:
	default:
		q.metrics.ObserveSubmit(trigger, ErrQueueFull)
		return model.IngestionJob{}, ErrQueueFull
	}

	q.metrics.ObserveSubmit(trigger, nil)
	q.metrics.SetQueueDepth(len(q.jobs))
	q.logger.Debug("ingestion job queued", zap.String("job_id", job.ID), zap.String("trigger", trigger))
	return job, nil
}

// Results publishes every finished run. It is closed after Stop returns.
func (q *Queue) Results() <-chan model.IngestionRun {
	return q.results
}

// Stop rejects new submissions and waits until every accepted job has run.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.stopped = true
	close(q.jobs)
	started := q.started
	q.mu.Unlock()

	if !started {
		close(q.results)
		close(q.done)
		return
	}
	<-q.done
}

func (q *Queue) work(ctx context.Context) {
	defer close(q.done)
	defer close(q.results)

	for job := range q.jobs {
		q.metrics.SetQueueDepth(len(q.jobs))
		q.limiter.Take()

		q.logger.Debug("ingestion run started", zap.String("job_id", job.ID))
		q.results <- q.runner.Run(ctx, job)
	}
}

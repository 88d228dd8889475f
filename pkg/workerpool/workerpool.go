// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// ProcessAll runs process for every item on workerCount goroutines.
// A failing item does not stop the others; all item errors are combined with multierr.
// Items not yet started when ctx is done are skipped and ctx.Err() is appended once.
func ProcessAll[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
) error {
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	tasks := make(chan T)
	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := process(ctx, item); err != nil {
					mu.Lock()
					errs = multierr.Append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

	var ctxErr error
feed:
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	return multierr.Append(errs, ctxErr)
}

// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// Wait blocks until d elapses, signal fires or ctx is done. A non-positive d
// waits for signal alone. signaled reports that signal woke the caller.
func Wait(ctx context.Context, d time.Duration, signal <-chan struct{}) (signaled bool, err error) {
	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-signal:
		return true, nil
	case <-timeout:
		return false, nil
	}
}

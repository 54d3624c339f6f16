// Package retryutil retries transient failures with a fixed delay and
// structured logging of each attempt.
package retryutil

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// Do runs fn up to attempts times, sleeping delay between tries. fn
// reports whether its error is worth retrying; a non-retryable error is
// returned immediately. ctx cancellation aborts the wait.
func Do(ctx context.Context, logger *slog.Logger, name string, attempts int, delay time.Duration, fn func(ctx context.Context) (retryable bool, err error)) error {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if delay <= 0 {
		delay = defaultDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		retryable, err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == attempts {
			return err
		}
		if logger != nil {
			logger.Info(name+"_retry_scheduled", "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

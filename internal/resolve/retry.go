package resolve

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times with a fixed delay between attempts,
// returning nil on the first success and the last error once the bound is
// exhausted. Context cancellation aborts the wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

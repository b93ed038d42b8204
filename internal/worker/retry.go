package worker

import (
	"context"
	"time"
)

const maxAttempts = 3

// retryBaseDelay is the first backoff step; tests shorten it.
var retryBaseDelay = time.Second

// withRetry calls fn up to attempts times with exponential backoff
// (base, 2×base, …) between calls. It stops early when fn returns an error
// wrapped by permanent.
func withRetry(ctx context.Context, attempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := retryBaseDelay * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		if p, ok := err.(permanentError); ok {
			return p.err
		}
		lastErr = err
	}
	return lastErr
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }

// permanent marks err as not worth retrying.
func permanent(err error) error { return permanentError{err: err} }

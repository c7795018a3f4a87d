package providers

import (
	"context"
	"time"
)

// retryWithBackoff runs fn up to maxRetries additional times after the first
// failure, sleeping attempt-number seconds between tries (linear backoff).
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() (*Output, error)) (*Output, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		wait := time.Duration(attempt+1) * time.Second
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

package turso

import (
	"context"
	"strings"
	"time"
)

// maxStreamRetries bounds retries of statements hit by a stale Turso stream.
const maxStreamRetries = 2

// IsStreamError reports whether err is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry calls fn until it succeeds, fails with an error other than a
// stream error, or maxRetries retries have been used.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		// Give the pool a moment to drop the stale connection.
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}

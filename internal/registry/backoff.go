package registry

import (
	"context"
	"net/http"
	"time"
)

// Retry policy.
const (
	BaseDelay   = 20 * time.Second
	MaxAttempts = 3
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Delay returns the wait before retry number attempt (1-based):
// BaseDelay * 2^(attempt-1).
func Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return BaseDelay << uint(attempt-1)
}

// IsRetryable reports whether an HTTP status is retried with backoff.
func IsRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusRequestTimeout
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

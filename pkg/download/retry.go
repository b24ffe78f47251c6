package download

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultMaxRetries is the number of retries after the first attempt.
const DefaultMaxRetries = 3

// DefaultDelays is the wait before each retry. Retries past the end of
// the schedule reuse its last entry.
var DefaultDelays = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// transientMarkers identify network failures worth retrying. Matching is
// on the error text so wrapped and platform specific errors classify the
// same way.
var transientMarkers = []string{
	"econnreset", "connection reset",
	"etimedout", "timed out", "timeout",
	"econnrefused", "connection refused",
	"socket hang up",
	"enotfound", "no such host",
	"epipe", "broken pipe",
}

// IsRetryable reports whether err looks like a transient network failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return lo.SomeBy(transientMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
}

// RetryOptions controls WithRetry.
type RetryOptions struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// disables retrying.
	MaxRetries int
	Delays     []time.Duration
	// Sleep waits between attempts. It defaults to a context aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryOptions returns three retries on the 1s, 2s, 4s schedule.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxRetries: DefaultMaxRetries, Delays: DefaultDelays}
}

func (o RetryOptions) delay(retry int) time.Duration {
	delays := o.Delays
	if len(delays) == 0 {
		delays = DefaultDelays
	}
	if retry >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[retry]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithRetry runs fn until it succeeds, fails with a non-retryable error,
// or runs out of retries. The last error is returned unchanged.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error, opts RetryOptions) error {
	_, err := Retry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts)
	return err
}

// Retry is WithRetry for functions that produce a value.
func Retry[T any](ctx context.Context, fn func(ctx context.Context) (T, error), opts RetryOptions) (T, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for retry := 0; ; retry++ {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		if retry >= opts.MaxRetries || !IsRetryable(err) {
			return value, err
		}

		d := opts.delay(retry)
		if opts.OnRetry != nil {
			opts.OnRetry(retry+1, err, d)
		}
		if serr := sleep(ctx, d); serr != nil {
			return value, err
		}
	}
}

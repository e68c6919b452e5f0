package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient feed failure: a network error, a
// timeout or a 5xx response. [Retry] only re-runs operations that fail
// with it.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff describes how often and how patiently a fetch is retried.
type Backoff struct {
	Attempts int           // total tries, at least one
	Delay    time.Duration // wait before the second try
	MaxDelay time.Duration // cap for the doubling delay; zero means none
}

// DefaultBackoff is used by [Fetcher.FetchWithRetry].
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

func (b Backoff) next(d time.Duration) time.Duration {
	d *= 2
	if b.MaxDelay > 0 && d > b.MaxDelay {
		return b.MaxDelay
	}
	return d
}

// Retry calls fn until it succeeds, fails with an error that is not a
// [RetryableError], or b.Attempts is used up. The last error is returned;
// ctx.Err() is returned when ctx ends during a wait.
func Retry(ctx context.Context, b Backoff, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !isRetryable(err) || attempt >= b.Attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = b.next(delay)
	}
}

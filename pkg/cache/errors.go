package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a failed round trip to a remote backend.
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss is used between a backend and its Get. Callers of
	// Cache.Get see a miss as ok == false with a nil error.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry policy: Attempts tries, sleeping Delay after the first
// failure and doubling it after each one.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff suits a cache server on the local network. A render is
// cheaper than waiting seconds for an artifact.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 50 * time.Millisecond}

// Do runs fn until it succeeds, returns an error that is not Retryable, or
// runs out of attempts. The last error is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}

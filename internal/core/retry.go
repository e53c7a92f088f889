package core

import (
	"context"
	"errors"
	"log"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// RetryPolicy retries throttled calls with exponential backoff: base, 2*base, 4*base...
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer-based sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each backoff wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryPolicy is three attempts starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: defaultMaxAttempts, BaseDelay: defaultBaseDelay}
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

// IsThrottled reports whether err is a provider throttling condition.
func IsThrottled(err error) bool {
	var throttled *ThrottledError
	return errors.As(err, &throttled)
}

// Do runs fn until it succeeds, fails with a non-throttling error, or the attempts run out.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsThrottled(err) || attempt == maxAttempts-1 {
			return "", err
		}

		delay := baseDelay << attempt
		log.Printf("Rate limited. Retrying in %v... (Attempt %d/%d)", delay, attempt+1, maxAttempts)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

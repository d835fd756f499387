package corpus

import (
	"context"
	"time"

	"github.com/fwojciec/cdpchat"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retryable reports whether another attempt could change the outcome.
func retryable(err error) bool {
	switch cdpchat.ErrorCode(err) {
	case cdpchat.ENOTFOUND, cdpchat.EINVALID:
		return false
	}
	return true
}

// fetch gets url through the rate limiter, retrying transient failures
// once per delay.
func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	delays := l.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			l.logger().Debug("retry fetch", "url", url, "attempt", attempt+1, "err", cdpchat.ErrorMessage(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		if l.RateLimiter != nil {
			if err := l.RateLimiter.Wait(ctx, host(url)); err != nil {
				return "", err
			}
		}

		html, err := l.Fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return "", lastErr
}

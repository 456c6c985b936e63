package provider

import (
	"context"
	"errors"
	"time"

	"factorindex/internal/domain"
	"factorindex/internal/logger"
)

type RetryPolicy struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseDelay   time.Duration `yaml:"baseDelay"`
	MaxDelay    time.Duration `yaml:"maxDelay"`
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// Backoff is BaseDelay * 2^attempt, capped at MaxDelay. attempt is zero based.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// IsRetryable is true only for provider timeouts, 5xx and 429.
func IsRetryable(err error) bool {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable()
	}
	return false
}

type retryingFetcher struct {
	next   Fetcher
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

func withRetry(next Fetcher, policy RetryPolicy) Fetcher {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return retryingFetcher{
		next:   next,
		policy: policy,
		sleep:  sleepCtx,
	}
}

func (f retryingFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < f.policy.MaxAttempts; attempt++ {
		resp, err := f.next.Fetch(ctx, req)
		if err == nil {
			return resp, nil
		}
		// a re-attempt refused by the local limiter reports the upstream failure
		var rateLimited *domain.RateLimitedError
		if attempt > 0 && errors.As(err, &rateLimited) {
			break
		}
		lastErr = err
		if !IsRetryable(err) || attempt == f.policy.MaxAttempts-1 {
			break
		}

		wait := f.policy.Backoff(attempt)
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) && providerErr.RetryAfter > wait {
			wait = providerErr.RetryAfter
		}
		log.Warnf("%s attempt %d failed, retrying in %s: %s", req.Endpoint, attempt+1, wait, err.Error())

		if err := f.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

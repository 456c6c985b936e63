package provider

import (
	"context"
	"errors"
	"time"

	"factorindex/internal/domain"

	"github.com/sony/gobreaker"
)

type BreakerSettings struct {
	FailureThreshold uint32        `yaml:"failureThreshold"`
	Window           time.Duration `yaml:"window"`
	Cooldown         time.Duration `yaml:"cooldown"`
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		Window:           60 * time.Second,
		Cooldown:         60 * time.Second,
	}
}

// Breaker is shared by every goroutine calling the same upstream.
type Breaker struct {
	provider string
	cb       *gobreaker.CircuitBreaker
}

func NewBreaker(provider string, settings BreakerSettings, metrics *Metrics) *Breaker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: provider,
		// half-open admits exactly one probe
		MaxRequests: 1,
		// gobreaker clears counts every Interval, a tumbling window
		Interval:    settings.Window,
		Timeout:     settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.TotalFailures >= threshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.breakerState(name, to)
		},
	})
	metrics.breakerState(provider, gobreaker.StateClosed)

	return &Breaker{
		provider: provider,
		cb:       cb,
	}
}

// countsAsHealthy decides which errors do not count against the upstream:
// caller cancellation and final 4xx responses. A first attempt refused by the
// local limiter never gets here; a refused re-attempt follows an upstream
// failure and counts as one.
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return !providerErr.Retryable() && providerErr.StatusCode >= 400 && providerErr.StatusCode < 500
	}
	return false
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs fn unless the circuit is open. Open and half-open rejections
// return a *domain.CircuitOpenError without calling fn.
func (b *Breaker) Execute(fn func() (*Response, error)) (*Response, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.CircuitOpenError{Provider: b.provider}
	}
	if err != nil {
		return nil, err
	}
	resp, _ := result.(*Response)
	return resp, nil
}

// Wrap runs next inside the breaker. When limiter is set the first attempt's
// token is taken before the breaker admits the call and handed down through
// ctx, so a refused request never uses up a half-open probe.
func (b *Breaker) Wrap(next Fetcher, limiter *RateLimiter) Fetcher {
	return FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
		if limiter != nil {
			if b.cb.State() == gobreaker.StateOpen {
				return nil, &domain.CircuitOpenError{Provider: b.provider}
			}
			if err := limiter.Acquire(ctx); err != nil {
				return nil, err
			}
			ctx = withHeldToken(ctx)
		}
		return b.Execute(func() (*Response, error) {
			return next.Fetch(ctx, req)
		})
	})
}

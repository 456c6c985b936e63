package provider

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"factorindex/internal/domain"

	"golang.org/x/time/rate"
)

type nonBlockingKey struct{}

type heldTokenKey struct{}

// NonBlocking marks ctx so rate limited calls fail fast with
// *domain.RateLimitedError instead of waiting for a token.
func NonBlocking(ctx context.Context) context.Context {
	return context.WithValue(ctx, nonBlockingKey{}, true)
}

// IsNonBlocking reports whether ctx was marked by NonBlocking.
func IsNonBlocking(ctx context.Context) bool {
	v, _ := ctx.Value(nonBlockingKey{}).(bool)
	return v
}

// withHeldToken records that a token was already taken for this call. The
// next Acquire on ctx spends it instead of the bucket; later ones do not.
func withHeldToken(ctx context.Context) context.Context {
	held := &atomic.Bool{}
	held.Store(true)
	return context.WithValue(ctx, heldTokenKey{}, held)
}

func spendHeldToken(ctx context.Context) bool {
	held, ok := ctx.Value(heldTokenKey{}).(*atomic.Bool)
	return ok && held.CompareAndSwap(true, false)
}

// RateLimiter is a token bucket refilling at requestsPerMinute.
type RateLimiter struct {
	provider string
	limiter  *rate.Limiter
	blocking bool
}

func NewRateLimiter(provider string, requestsPerMinute, burst int, blocking bool) *RateLimiter {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		provider: provider,
		limiter:  rate.NewLimiter(limit, burst),
		blocking: blocking,
	}
}

func (l *RateLimiter) Acquire(ctx context.Context) error {
	if spendHeldToken(ctx) {
		return nil
	}
	if l.blocking && !IsNonBlocking(ctx) {
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limiter wait: %w", l.provider, err)
		}
		return nil
	}

	r := l.limiter.Reserve()
	if !r.OK() {
		return &domain.RateLimitedError{Provider: l.provider, RetryAfter: time.Minute}
	}
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return &domain.RateLimitedError{Provider: l.provider, RetryAfter: delay}
	}
	return nil
}

func withRateLimit(next Fetcher, limiter *RateLimiter) Fetcher {
	return FetcherFunc(func(ctx context.Context, req Request) (*Response, error) {
		if err := limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		return next.Fetch(ctx, req)
	})
}

package provider

import (
	"context"
	"errors"
	"time"

	"factorindex/internal/domain"
)

type timeoutFetcher struct {
	next     Fetcher
	provider string
	timeout  time.Duration
}

func withTimeout(next Fetcher, provider string, timeout time.Duration) Fetcher {
	return timeoutFetcher{
		next:     next,
		provider: provider,
		timeout:  timeout,
	}
}

// Fetch bounds a single attempt. Sdk calls that ignore ctx are abandoned when
// the deadline passes, their goroutine finishes in the background.
func (f timeoutFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	attemptCtx := ctx
	cancel := func() {}
	if f.timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, f.timeout)
	}
	defer cancel()

	type result struct {
		resp *Response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := f.next.Fetch(attemptCtx, req)
		ch <- result{resp, err}
	}()

	var (
		resp *Response
		err  error
	)
	select {
	case r := <-ch:
		resp, err = r.resp, r.err
	case <-attemptCtx.Done():
		err = attemptCtx.Err()
	}

	// only our own deadline is a provider timeout, the caller's is not
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &domain.ProviderError{
			Provider: f.provider,
			Endpoint: string(req.Endpoint),
			Timeout:  true,
			Err:      err,
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

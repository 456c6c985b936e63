package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"factorindex/internal/domain"
	"factorindex/internal/repository"
	"factorindex/pkg/exchangerate"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

type alpacaSource struct {
	repo repository.AlpacaRepository
}

func NewAlpacaSource(repo repository.AlpacaRepository) Source {
	return alpacaSource{repo: repo}
}

func (s alpacaSource) Name() string {
	return "alpaca"
}

func (s alpacaSource) Supports(e Endpoint) bool {
	return e == EndpointDailyCloses || e == EndpointLatestQuotes
}

func (s alpacaSource) Fetch(ctx context.Context, req Request) (*Response, error) {
	switch req.Endpoint {
	case EndpointDailyCloses:
		prices, err := s.repo.GetDailyBars(req.Symbols, req.Range.Start, req.Range.End)
		if err != nil {
			return nil, classify(s.Name(), req.Endpoint, err)
		}
		return &Response{Prices: prices}, nil
	case EndpointLatestQuotes:
		quotes, err := s.repo.GetLatestQuotes(req.Symbols)
		if err != nil {
			return nil, classify(s.Name(), req.Endpoint, err)
		}
		return &Response{Quotes: quotes}, nil
	}
	return nil, fmt.Errorf("alpaca does not support %s", req.Endpoint)
}

type yahooSource struct {
	repo repository.YahooRepository
}

func NewYahooSource(repo repository.YahooRepository) Source {
	return yahooSource{repo: repo}
}

func (s yahooSource) Name() string {
	return "yahoo"
}

func (s yahooSource) Supports(e Endpoint) bool {
	return e == EndpointDailyCloses || e == EndpointMarketCaps
}

func (s yahooSource) Fetch(ctx context.Context, req Request) (*Response, error) {
	switch req.Endpoint {
	case EndpointDailyCloses:
		// chart api is per symbol, the whole batch fails together
		out := map[string][]domain.PricePoint{}
		for _, symbol := range req.Symbols {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			points, err := s.repo.GetDailyCloses(symbol, req.Range.Start, req.Range.End)
			if err != nil {
				return nil, classify(s.Name(), req.Endpoint, err)
			}
			out[symbol] = points
		}
		return &Response{Prices: out}, nil
	case EndpointMarketCaps:
		caps, err := s.repo.GetMarketCaps(req.Symbols)
		if err != nil {
			return nil, classify(s.Name(), req.Endpoint, err)
		}
		return &Response{MarketCaps: caps}, nil
	}
	return nil, fmt.Errorf("yahoo does not support %s", req.Endpoint)
}

type fxSource struct {
	client *exchangerate.Client
}

func NewFxSource(client *exchangerate.Client) Source {
	return fxSource{client: client}
}

func (s fxSource) Name() string {
	return "exchangerate"
}

func (s fxSource) Supports(e Endpoint) bool {
	return e == EndpointFxRates
}

func (s fxSource) Fetch(ctx context.Context, req Request) (*Response, error) {
	if req.Endpoint != EndpointFxRates {
		return nil, fmt.Errorf("exchangerate does not support %s", req.Endpoint)
	}

	quotesByBase := map[string][]string{}
	for _, pair := range req.Symbols {
		base, quote, ok := strings.Cut(pair, "/")
		if !ok {
			return nil, &domain.ProviderError{
				Provider:   s.Name(),
				Endpoint:   string(req.Endpoint),
				StatusCode: http.StatusBadRequest,
				Err:        fmt.Errorf("invalid currency pair %q", pair),
			}
		}
		quotesByBase[base] = append(quotesByBase[base], quote)
	}

	out := map[string]float64{}
	for base, quotes := range quotesByBase {
		rates, err := s.client.GetRates(ctx, base, quotes, req.Range.End)
		if err != nil {
			return nil, classify(s.Name(), req.Endpoint, err)
		}
		for quote, rate := range rates {
			out[base+"/"+quote] = rate
		}
	}
	return &Response{Rates: out}, nil
}

// classify turns sdk and transport errors into *domain.ProviderError so the
// retry and breaker layers can reason about them.
func classify(provider string, endpoint Endpoint, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	providerErr := &domain.ProviderError{
		Provider: provider,
		Endpoint: string(endpoint),
		Err:      err,
	}

	var netErr net.Error
	var alpacaErr *alpaca.APIError
	var statusErr *exchangerate.StatusError
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		providerErr.Timeout = true
	case errors.As(err, &alpacaErr):
		providerErr.StatusCode = alpacaErr.StatusCode
	case errors.As(err, &statusErr):
		providerErr.StatusCode = statusErr.StatusCode
		providerErr.RetryAfter = statusErr.RetryAfter
	default:
		// the yahoo client hides upstream status codes, treat unknown
		// failures as a bad gateway
		providerErr.StatusCode = http.StatusBadGateway
	}

	return providerErr
}

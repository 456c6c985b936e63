package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"factorindex/internal/domain"
)

type Endpoint string

const (
	EndpointDailyCloses  Endpoint = "daily_closes"
	EndpointLatestQuotes Endpoint = "latest_quotes"
	EndpointMarketCaps   Endpoint = "market_caps"
	EndpointFxRates      Endpoint = "fx_rates"
)

// Request is one logical call to an upstream. For fx requests Symbols holds
// currency pairs formatted as BASE/QUOTE.
type Request struct {
	Endpoint Endpoint
	Symbols  []string
	Range    domain.DateRange
}

type Response struct {
	Prices     map[string][]domain.PricePoint `json:"prices,omitempty"`
	Quotes     map[string]domain.PricePoint   `json:"quotes,omitempty"`
	MarketCaps map[string]float64             `json:"marketCaps,omitempty"`
	Rates      map[string]float64             `json:"rates,omitempty"`
}

// Fetcher is the single capability every layer of the chain wraps.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

type FetcherFunc func(ctx context.Context, req Request) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Source is a network leaf of the chain.
type Source interface {
	Fetcher
	Name() string
	Supports(Endpoint) bool
}

type MarketDataProvider interface {
	FetchPrices(ctx context.Context, symbols []string, r domain.DateRange) (map[string][]domain.PricePoint, error)
	FetchLatestQuotes(ctx context.Context, symbols []string) (map[string]domain.PricePoint, error)
	FetchMarketCaps(ctx context.Context, symbols []string) (map[string]float64, error)
	FetchFx(ctx context.Context, pairs []string, date time.Time) (map[string]float64, error)
	Name() string
	MaxBatchSize() int
}

type Settings struct {
	RequestsPerMinute int             `yaml:"requestsPerMinute"`
	Burst             int             `yaml:"burst"`
	Blocking          bool            `yaml:"blocking"`
	MaxBatchSize      int             `yaml:"maxBatchSize"`
	RequestTimeout    time.Duration   `yaml:"requestTimeout"`
	Retry             RetryPolicy     `yaml:"retry"`
	Breaker           BreakerSettings `yaml:"breaker"`
}

func DefaultSettings() Settings {
	return Settings{
		RequestsPerMinute: 200,
		Blocking:          true,
		MaxBatchSize:      50,
		RequestTimeout:    30 * time.Second,
		Retry:             DefaultRetryPolicy(),
		Breaker:           DefaultBreakerSettings(),
	}
}

// Provider is one upstream behind its own cache, breaker, retry, rate
// limiter and timeout layers, in that order from the outside in. The breaker
// layer takes the first attempt's token so a request the limiter refuses is
// never counted by the breaker.
type Provider struct {
	name         string
	maxBatchSize int
	source       Source
	chain        Fetcher
	breaker      *Breaker
}

func New(source Source, settings Settings, cache Cache, ttl TTLPolicy, metrics *Metrics) *Provider {
	name := source.Name()

	limiter := NewRateLimiter(name, settings.RequestsPerMinute, settings.Burst, settings.Blocking)

	var f Fetcher = instrument(source, name, metrics)
	f = withTimeout(f, name, settings.RequestTimeout)
	f = withRateLimit(f, limiter)
	f = withRetry(f, settings.Retry)
	breaker := NewBreaker(name, settings.Breaker, metrics)
	f = breaker.Wrap(f, limiter)
	if cache != nil {
		f = withCache(f, name, cache, ttl, metrics)
	}

	maxBatchSize := settings.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = 1
	}

	return &Provider{
		name:         name,
		maxBatchSize: maxBatchSize,
		source:       source,
		chain:        f,
		breaker:      breaker,
	}
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) MaxBatchSize() int {
	return p.maxBatchSize
}

func (p *Provider) Breaker() *Breaker {
	return p.breaker
}

func (p *Provider) fetch(ctx context.Context, req Request) (*Response, error) {
	if !p.source.Supports(req.Endpoint) {
		return nil, fmt.Errorf("%s does not support %s", p.name, req.Endpoint)
	}
	return p.chain.Fetch(ctx, req)
}

func (p *Provider) FetchPrices(ctx context.Context, symbols []string, r domain.DateRange) (map[string][]domain.PricePoint, error) {
	out := map[string][]domain.PricePoint{}
	for _, batch := range Batch(symbols, p.maxBatchSize) {
		resp, err := p.fetch(ctx, Request{Endpoint: EndpointDailyCloses, Symbols: batch, Range: r})
		if err != nil {
			return nil, err
		}
		for s, points := range resp.Prices {
			out[s] = points
		}
	}
	return out, nil
}

func (p *Provider) FetchLatestQuotes(ctx context.Context, symbols []string) (map[string]domain.PricePoint, error) {
	out := map[string]domain.PricePoint{}
	for _, batch := range Batch(symbols, p.maxBatchSize) {
		resp, err := p.fetch(ctx, Request{Endpoint: EndpointLatestQuotes, Symbols: batch})
		if err != nil {
			return nil, err
		}
		for s, q := range resp.Quotes {
			out[s] = q
		}
	}
	return out, nil
}

func (p *Provider) FetchMarketCaps(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, batch := range Batch(symbols, p.maxBatchSize) {
		resp, err := p.fetch(ctx, Request{Endpoint: EndpointMarketCaps, Symbols: batch})
		if err != nil {
			return nil, err
		}
		for s, c := range resp.MarketCaps {
			out[s] = c
		}
	}
	return out, nil
}

func (p *Provider) FetchFx(ctx context.Context, pairs []string, date time.Time) (map[string]float64, error) {
	out := map[string]float64{}
	for _, batch := range Batch(pairs, p.maxBatchSize) {
		resp, err := p.fetch(ctx, Request{
			Endpoint: EndpointFxRates,
			Symbols:  batch,
			Range:    domain.DateRange{Start: date, End: date},
		})
		if err != nil {
			return nil, err
		}
		for pair, rate := range resp.Rates {
			out[pair] = rate
		}
	}
	return out, nil
}

// Batch splits symbols into chunks of at most size, dropping duplicates and
// keeping first-seen order.
func Batch(symbols []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	seen := map[string]bool{}
	unique := []string{}
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
	}

	out := [][]string{}
	for start := 0; start < len(unique); start += size {
		end := start + size
		if end > len(unique) {
			end = len(unique)
		}
		out = append(out, unique[start:end])
	}
	return out
}

// Composite routes each endpoint to the upstream configured for it.
type Composite struct {
	Prices     MarketDataProvider
	Quotes     MarketDataProvider
	MarketCaps MarketDataProvider
	Fx         MarketDataProvider
}

func (c Composite) FetchPrices(ctx context.Context, symbols []string, r domain.DateRange) (map[string][]domain.PricePoint, error) {
	return c.Prices.FetchPrices(ctx, symbols, r)
}

func (c Composite) FetchLatestQuotes(ctx context.Context, symbols []string) (map[string]domain.PricePoint, error) {
	return c.Quotes.FetchLatestQuotes(ctx, symbols)
}

func (c Composite) FetchMarketCaps(ctx context.Context, symbols []string) (map[string]float64, error) {
	return c.MarketCaps.FetchMarketCaps(ctx, symbols)
}

func (c Composite) FetchFx(ctx context.Context, pairs []string, date time.Time) (map[string]float64, error) {
	return c.Fx.FetchFx(ctx, pairs, date)
}

func (c Composite) Name() string {
	names := []string{}
	seen := map[string]bool{}
	for _, p := range []MarketDataProvider{c.Prices, c.Quotes, c.MarketCaps, c.Fx} {
		if p == nil || seen[p.Name()] {
			continue
		}
		seen[p.Name()] = true
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

// MaxBatchSize is the price upstream's, since price batches drive refresh fan out.
func (c Composite) MaxBatchSize() int {
	return c.Prices.MaxBatchSize()
}

package repository

import (
	"fmt"
	"sort"
	"time"

	"factorindex/internal/domain"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type AlpacaRepository interface {
	GetDailyBars(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error)
	GetLatestQuotes(symbols []string) (map[string]domain.PricePoint, error)
	IsMarketOpen() (bool, error)
}

func NewAlpacaRepository(apiKey, apiSecret, tradingEndpoint, dataEndpoint string) AlpacaRepository {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   tradingEndpoint,
	})

	// retries are owned by the provider chain, so the sdk must not retry 429s itself
	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		BaseURL:    dataEndpoint,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		RetryLimit: 0,
	})

	return &alpacaRepositoryHandler{
		Client:   client,
		MdClient: mdClient,
	}
}

type alpacaRepositoryHandler struct {
	Client   *alpaca.Client
	MdClient *marketdata.Client
}

func (h alpacaRepositoryHandler) GetDailyBars(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error) {
	out := map[string][]domain.PricePoint{}
	if len(symbols) == 0 {
		return out, nil
	}

	results, err := h.MdClient.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      start,
		// end is inclusive for us, exclusive-ish for alpaca's timestamp filter
		End: end.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bars for %d symbols: %w", len(symbols), err)
	}

	for symbol, bars := range results {
		points := make([]domain.PricePoint, 0, len(bars))
		for _, b := range bars {
			ts := b.Timestamp.UTC()
			points = append(points, domain.PricePoint{
				Date:  time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
				Close: b.Close,
			})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		out[symbol] = points
	}

	return out, nil
}

func (h alpacaRepositoryHandler) GetLatestQuotes(symbols []string) (map[string]domain.PricePoint, error) {
	if len(symbols) == 0 {
		return map[string]domain.PricePoint{}, nil
	}
	results, err := h.MdClient.GetLatestQuotes(symbols, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to get latest quotes: %w", err)
	}

	out := map[string]domain.PricePoint{}
	for symbol, result := range results {
		price := result.BidPrice
		if result.BidPrice > 0 && result.AskPrice > 0 {
			price = (result.BidPrice + result.AskPrice) / 2
		}
		if price <= 0 {
			return nil, fmt.Errorf("failed to get price for %s: got 0 price", symbol)
		}
		out[symbol] = domain.PricePoint{
			Date:  result.Timestamp.UTC(),
			Close: price,
		}
	}

	return out, nil
}

func (h alpacaRepositoryHandler) IsMarketOpen() (bool, error) {
	clock, err := h.Client.GetClock()
	if err != nil {
		return false, fmt.Errorf("failed to get market clock: %w", err)
	}
	return clock.IsOpen, nil
}

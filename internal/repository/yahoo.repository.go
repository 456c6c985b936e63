package repository

import (
	"fmt"
	"time"

	"factorindex/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// YahooRepository wraps the yahoo finance endpoints. Neither call accepts a
// context, callers enforce their own deadlines.
type YahooRepository interface {
	GetDailyCloses(symbol string, start, end time.Time) ([]domain.PricePoint, error)
	GetMarketCaps(symbols []string) (map[string]float64, error)
}

type yahooRepositoryHandler struct{}

func NewYahooRepository() YahooRepository {
	return yahooRepositoryHandler{}
}

func (h yahooRepositoryHandler) GetDailyCloses(symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	s := start
	e := end.AddDate(0, 0, 1)
	params := &chart.Params{
		Start:    datetime.New(&s),
		End:      datetime.New(&e),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []domain.PricePoint{}
	for iter.Next() {
		ts := time.Unix(int64(iter.Bar().Timestamp), 0).UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if date.After(end) {
			continue
		}
		out = append(out, domain.PricePoint{
			Date:  date,
			Close: iter.Bar().AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return out, nil
}

func (h yahooRepositoryHandler) GetMarketCaps(symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	if len(symbols) == 0 {
		return out, nil
	}

	iter := equity.List(symbols)
	for iter.Next() {
		e := iter.Equity()
		if e.MarketCap > 0 {
			out[e.Symbol] = float64(e.MarketCap)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get market caps for %d symbols: %w", len(symbols), err)
	}

	return out, nil
}

package integration_tests

import (
	"math"
	"time"

	"factorindex/internal/domain"
	"factorindex/internal/repository"
)

// NewMockAlpacaRepositoryForTests serves deterministic weekday closes so the
// pipeline can run end to end without market data credentials. The market is
// always closed.
func NewMockAlpacaRepositoryForTests() repository.AlpacaRepository {
	return mockAlpacaForTestsHandler{}
}

type mockAlpacaForTestsHandler struct{}

// mockClose drifts each symbol at its own rate with a small wave on top, so
// momentum and volatility differ between symbols.
func mockClose(symbol string, date time.Time) float64 {
	seed := 0
	for _, c := range symbol {
		seed += int(c)
	}
	base := 20 + float64(seed%80)
	drift := float64(seed%7-3) / 10000
	day := date.Sub(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).Hours() / 24
	wave := 0.004 * float64(seed%5+1) * math.Sin(day/5+float64(seed))
	return base * (1 + drift*day) * (1 + wave)
}

func (m mockAlpacaForTestsHandler) GetDailyBars(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error) {
	out := map[string][]domain.PricePoint{}
	for _, symbol := range symbols {
		points := []domain.PricePoint{}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			points = append(points, domain.PricePoint{
				Date:  d,
				Close: mockClose(symbol, d),
			})
		}
		out[symbol] = points
	}
	return out, nil
}

func (m mockAlpacaForTestsHandler) GetLatestQuotes(symbols []string) (map[string]domain.PricePoint, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := map[string]domain.PricePoint{}
	for _, symbol := range symbols {
		out[symbol] = domain.PricePoint{
			Date:  today,
			Close: mockClose(symbol, today),
		}
	}
	return out, nil
}

func (m mockAlpacaForTestsHandler) IsMarketOpen() (bool, error) {
	return false, nil
}

// NewMockYahooRepositoryForTests reports a fixed market cap per symbol and
// has no price history.
func NewMockYahooRepositoryForTests(caps map[string]float64) repository.YahooRepository {
	return mockYahooForTestsHandler{caps: caps}
}

type mockYahooForTestsHandler struct {
	caps map[string]float64
}

func (m mockYahooForTestsHandler) GetDailyCloses(symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	return []domain.PricePoint{}, nil
}

func (m mockYahooForTestsHandler) GetMarketCaps(symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, s := range symbols {
		if c, ok := m.caps[s]; ok {
			out[s] = c
		}
	}
	return out, nil
}

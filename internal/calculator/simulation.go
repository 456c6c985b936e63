package calculator

import (
	"fmt"
	"sort"
	"time"

	"factorindex/internal/domain"

	"github.com/shopspring/decimal"
)

type SimulationPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type SimulationResult struct {
	StartDate     time.Time         `json:"startDate"`
	InitialAmount decimal.Decimal   `json:"initialAmount"`
	FinalAmount   decimal.Decimal   `json:"finalAmount"`
	RoiPct        float64           `json:"roiPct"`
	Series        []SimulationPoint `json:"series"`
}

// Simulate replays the index from the first value on or after start, scaled
// so the initial amount buys the index at that date.
func Simulate(amount decimal.Decimal, start time.Time, index []domain.IndexValue) (*SimulationResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("simulation amount must be positive, got %s", amount.String())
	}

	values := append([]domain.IndexValue{}, index...)
	sort.Slice(values, func(i, j int) bool {
		return values[i].Date.Before(values[j].Date)
	})
	i := sort.Search(len(values), func(i int) bool {
		return !values[i].Date.Before(start)
	})
	if i == len(values) {
		return nil, fmt.Errorf("%w on or after %s", domain.ErrNoIndexHistory, start.Format(time.DateOnly))
	}
	values = values[i:]

	base := decimal.NewFromFloat(values[0].Value)
	if !base.IsPositive() {
		return nil, fmt.Errorf("index value on %s is not positive", values[0].Date.Format(time.DateOnly))
	}

	series := make([]SimulationPoint, 0, len(values))
	for _, v := range values {
		series = append(series, SimulationPoint{
			Date:  v.Date,
			Value: amount.Mul(decimal.NewFromFloat(v.Value)).Div(base).Round(2),
		})
	}

	final := series[len(series)-1].Value
	roi := final.Sub(amount).Div(amount).Mul(decimal.NewFromInt(100))

	return &SimulationResult{
		StartDate:     values[0].Date,
		InitialAmount: amount,
		FinalAmount:   final,
		RoiPct:        roi.Round(4).InexactFloat64(),
		Series:        series,
	}, nil
}

package l3_service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/repository"
	l1_service "factorindex/internal/service/l1"

	"github.com/shopspring/decimal"
)

type SimulateInput struct {
	Amount    decimal.Decimal
	StartDate time.Time
	// Currency of Amount and of the returned series, defaults to the base currency
	Currency string
}

type SimulationService interface {
	Simulate(ctx context.Context, tx *sql.Tx, in SimulateInput) (*calculator.SimulationResult, error)
}

type simulationServiceHandler struct {
	IndexValueRepository repository.IndexValueRepository
	CurrencyConverter    l1_service.CurrencyConverter
	BaseCurrency         string
}

func NewSimulationService(
	indexValueRepository repository.IndexValueRepository,
	currencyConverter l1_service.CurrencyConverter,
	baseCurrency string,
) SimulationService {
	return simulationServiceHandler{
		IndexValueRepository: indexValueRepository,
		CurrencyConverter:    currencyConverter,
		BaseCurrency:         baseCurrency,
	}
}

// Simulate replays the stored index for an initial investment. For a foreign
// currency the amount is converted into the base currency on the start date
// and every point of the series is converted back on its own date.
func (h simulationServiceHandler) Simulate(ctx context.Context, tx *sql.Tx, in SimulateInput) (*calculator.SimulationResult, error) {
	start := in.StartDate
	index, err := h.IndexValueRepository.List(tx, &start, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list index values: %w", err)
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" || currency == strings.ToUpper(h.BaseCurrency) {
		return calculator.Simulate(in.Amount, in.StartDate, index)
	}

	baseResult, err := calculator.Simulate(decimal.NewFromInt(1), in.StartDate, index)
	if err != nil {
		return nil, err
	}

	baseAmount, err := h.CurrencyConverter.Convert(tx, in.Amount, currency, h.BaseCurrency, baseResult.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to %s: %w", currency, h.BaseCurrency, err)
	}
	result, err := calculator.Simulate(baseAmount, in.StartDate, index)
	if err != nil {
		return nil, err
	}

	for i, point := range result.Series {
		converted, err := h.CurrencyConverter.Convert(tx, point.Value, h.BaseCurrency, currency, point.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to convert series on %s: %w", point.Date.Format(time.DateOnly), err)
		}
		result.Series[i].Value = converted.Round(2)
	}

	final := result.Series[len(result.Series)-1].Value
	result.InitialAmount = in.Amount
	result.FinalAmount = final
	result.RoiPct = final.Sub(in.Amount).Div(in.Amount).Mul(decimal.NewFromInt(100)).Round(4).InexactFloat64()

	return result, nil
}

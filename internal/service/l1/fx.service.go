package l1_service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"factorindex/internal/repository"

	"github.com/shopspring/decimal"
)

// CurrencyConverter converts amounts using the most recent stored rate on
// or before the requested date.
type CurrencyConverter interface {
	Convert(tx *sql.Tx, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error)
}

type FxRateNotFoundError struct {
	From string
	To   string
	Date time.Time
}

func (e FxRateNotFoundError) Error() string {
	return fmt.Sprintf("no %s/%s rate on or before %s", e.From, e.To, e.Date.Format(time.DateOnly))
}

type currencyConverterHandler struct {
	FxRateRepository repository.FxRateRepository
}

func NewCurrencyConverter(fxRateRepository repository.FxRateRepository) CurrencyConverter {
	return currencyConverterHandler{
		FxRateRepository: fxRateRepository,
	}
}

func (h currencyConverterHandler) Convert(tx *sql.Tx, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	direct, err := h.FxRateRepository.GetLatest(tx, from+"/"+to, date)
	if err != nil {
		return decimal.Zero, err
	}
	if direct != nil && direct.Rate.IsPositive() {
		return amount.Mul(direct.Rate), nil
	}

	inverse, err := h.FxRateRepository.GetLatest(tx, to+"/"+from, date)
	if err != nil {
		return decimal.Zero, err
	}
	if inverse != nil && inverse.Rate.IsPositive() {
		return amount.Div(inverse.Rate), nil
	}

	return decimal.Zero, FxRateNotFoundError{From: from, To: to, Date: date}
}

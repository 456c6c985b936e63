package l1_service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"factorindex/internal/domain"
	"factorindex/internal/repository"
)

// PriceWindow is a slice of stored closes along with the trading days it spans.
type PriceWindow struct {
	Prices      domain.PriceSeries
	TradingDays []time.Time
}

func (w PriceWindow) Start() *time.Time {
	if len(w.TradingDays) == 0 {
		return nil
	}
	return &w.TradingDays[0]
}

type PriceService interface {
	// LoadTrailingWindow returns the last numDays trading days of closes
	// ending on or before asOf.
	LoadTrailingWindow(ctx context.Context, tx *sql.Tx, symbols []string, asOf time.Time, numDays int) (*PriceWindow, error)
	LoadRange(ctx context.Context, tx *sql.Tx, symbols []string, start, end time.Time) (*PriceWindow, error)
}

type priceServiceHandler struct {
	PriceObservationRepository repository.PriceObservationRepository
}

func NewPriceService(priceObservationRepository repository.PriceObservationRepository) PriceService {
	return priceServiceHandler{
		PriceObservationRepository: priceObservationRepository,
	}
}

func (h priceServiceHandler) LoadTrailingWindow(ctx context.Context, tx *sql.Tx, symbols []string, asOf time.Time, numDays int) (*PriceWindow, error) {
	if numDays <= 0 {
		return nil, fmt.Errorf("window must have at least one day, got %d", numDays)
	}

	// wide enough to cover numDays trading days through holidays
	calendarStart := asOf.AddDate(0, 0, -(numDays*2 + 10))
	tradingDays, err := h.PriceObservationRepository.ListTradingDays(tx, calendarStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	if len(tradingDays) > numDays {
		tradingDays = tradingDays[len(tradingDays)-numDays:]
	}
	if len(tradingDays) == 0 {
		return &PriceWindow{
			Prices:      domain.PriceSeries{},
			TradingDays: []time.Time{},
		}, nil
	}

	return h.LoadRange(ctx, tx, symbols, tradingDays[0], asOf)
}

func (h priceServiceHandler) LoadRange(ctx context.Context, tx *sql.Tx, symbols []string, start, end time.Time) (*PriceWindow, error) {
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("list trading days")
	tradingDays, err := h.PriceObservationRepository.ListTradingDays(tx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("list prices")
	prices, err := h.PriceObservationRepository.List(tx, symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	endSpan()

	return &PriceWindow{
		Prices:      prices,
		TradingDays: tradingDays,
	}, nil
}

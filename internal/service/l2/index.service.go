package l2_service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	"factorindex/internal/repository"
	l1_service "factorindex/internal/service/l1"
)

type RecomputeResult struct {
	From          *time.Time `json:"from"`
	ValuesWritten int        `json:"valuesWritten"`
}

type IndexService interface {
	// Recompute rebuilds the full index series from the effective allocations
	// and replaces every stored value dated on or after from. A nil from
	// replaces the whole series.
	Recompute(ctx context.Context, tx *sql.Tx, from *time.Time) (*RecomputeResult, error)
	Benchmark(ctx context.Context, tx *sql.Tx, start, end time.Time) ([]domain.IndexValue, error)
}

type indexServiceHandler struct {
	AllocationRepository repository.AllocationRepository
	IndexValueRepository repository.IndexValueRepository
	PriceService         l1_service.PriceService
	BenchmarkSymbol      string
	Now                  func() time.Time
}

func NewIndexService(
	allocationRepository repository.AllocationRepository,
	indexValueRepository repository.IndexValueRepository,
	priceService l1_service.PriceService,
	benchmarkSymbol string,
) IndexService {
	return indexServiceHandler{
		AllocationRepository: allocationRepository,
		IndexValueRepository: indexValueRepository,
		PriceService:         priceService,
		BenchmarkSymbol:      benchmarkSymbol,
		Now:                  time.Now,
	}
}

func (h indexServiceHandler) Recompute(ctx context.Context, tx *sql.Tx, from *time.Time) (*RecomputeResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("load allocations")
	sets, err := h.AllocationRepository.ListEffective(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	endSpan()
	if len(sets) == 0 {
		log.Info("no allocations yet, skipping index recompute")
		return &RecomputeResult{From: from}, nil
	}

	first := sets[0].Date
	symbolSet := map[string]bool{}
	for _, set := range sets {
		if set.Date.Before(first) {
			first = set.Date
		}
		for symbol := range set.Weights {
			symbolSet[symbol] = true
		}
	}
	symbols := []string{}
	for s := range symbolSet {
		symbols = append(symbols, s)
	}

	_, endSpan = profile.StartNewSpan("load prices")
	window, err := h.PriceService.LoadRange(ctx, tx, symbols, first, h.Now().UTC())
	if err != nil {
		return nil, err
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("compute series")
	series, err := calculator.ComputeIndexSeries(sets, window.Prices, window.TradingDays)
	if err != nil {
		return nil, fmt.Errorf("failed to compute index series: %w", err)
	}
	endSpan()

	replaceFrom := first
	if from != nil && from.After(first) {
		replaceFrom = *from
	}
	toWrite := []domain.IndexValue{}
	for _, v := range series {
		if !v.Date.Before(replaceFrom) {
			toWrite = append(toWrite, v)
		}
	}

	_, endSpan = profile.StartNewSpan("replace stored values")
	if err := h.IndexValueRepository.ReplaceFrom(tx, replaceFrom, toWrite); err != nil {
		return nil, err
	}
	endSpan()

	log.Infof("recomputed index from %s, %d values written", replaceFrom.Format(time.DateOnly), len(toWrite))

	return &RecomputeResult{
		From:          &replaceFrom,
		ValuesWritten: len(toWrite),
	}, nil
}

// Benchmark rebases the benchmark symbol to the index base value on its first
// close on or after start.
func (h indexServiceHandler) Benchmark(ctx context.Context, tx *sql.Tx, start, end time.Time) ([]domain.IndexValue, error) {
	if h.BenchmarkSymbol == "" {
		return []domain.IndexValue{}, nil
	}
	window, err := h.PriceService.LoadRange(ctx, tx, []string{h.BenchmarkSymbol}, start, end)
	if err != nil {
		return nil, err
	}
	points := window.Prices[h.BenchmarkSymbol]
	if len(points) == 0 {
		return []domain.IndexValue{}, nil
	}

	return calculator.BenchmarkSeries(window.Prices, h.BenchmarkSymbol, points[0].Date, window.TradingDays), nil
}

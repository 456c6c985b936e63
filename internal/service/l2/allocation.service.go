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

type AllocationService interface {
	// ComputeAllocation scores the active universe as of date and returns the
	// constrained weights. Nothing is persisted.
	ComputeAllocation(ctx context.Context, tx *sql.Tx, date time.Time, cfg domain.StrategyConfig) (*calculator.ComputeAllocationResult, error)
}

type allocationServiceHandler struct {
	AssetRepository     repository.AssetRepository
	MarketCapRepository repository.MarketCapRepository
	PriceService        l1_service.PriceService
}

func NewAllocationService(
	assetRepository repository.AssetRepository,
	marketCapRepository repository.MarketCapRepository,
	priceService l1_service.PriceService,
) AllocationService {
	return allocationServiceHandler{
		AssetRepository:     assetRepository,
		MarketCapRepository: marketCapRepository,
		PriceService:        priceService,
	}
}

func (h allocationServiceHandler) ComputeAllocation(ctx context.Context, tx *sql.Tx, date time.Time, cfg domain.StrategyConfig) (*calculator.ComputeAllocationResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("load universe")
	assets, err := h.AssetRepository.ListActive(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assets: %w", err)
	}
	symbols := domain.Symbols(assets)
	if len(symbols) < cfg.Constraints.MinAssets {
		return nil, &domain.InsufficientAssetsError{
			Required:  cfg.Constraints.MinAssets,
			Available: len(symbols),
			Reason:    "not enough active assets",
		}
	}
	endSpan()

	windowDays := cfg.LookbackDays
	if cfg.VolatilityDays > windowDays {
		windowDays = cfg.VolatilityDays
	}

	_, endSpan = profile.StartNewSpan("load price window")
	window, err := h.PriceService.LoadTrailingWindow(ctx, tx, symbols, date, windowDays+1)
	if err != nil {
		return nil, err
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("load market caps")
	marketCaps, err := h.MarketCapRepository.GetLatest(tx, symbols, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get market caps: %w", err)
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("compute allocation")
	result, err := calculator.ComputeAllocation(calculator.ScoreFactorsInput{
		Date:       date,
		Symbols:    symbols,
		Prices:     window.Prices,
		MarketCaps: marketCaps,
		Config:     cfg,
	})
	if err != nil {
		return nil, err
	}
	endSpan()

	for symbol, reason := range result.Scores.Excluded {
		log.Debugf("excluded %s on %s: %s", symbol, date.Format(time.DateOnly), reason)
	}
	log.Infof("computed allocation on %s over %d assets (%d excluded)", date.Format(time.DateOnly), len(result.Allocation.Weights), len(result.Scores.Excluded))

	return result, nil
}

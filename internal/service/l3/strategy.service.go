package l3_service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	"factorindex/internal/repository"
	l2_service "factorindex/internal/service/l2"
)

type RebalanceInput struct {
	Force bool
	// Date defaults to the latest stored trading day
	Date *time.Time
}

type RebalanceResult struct {
	Date          time.Time                             `json:"date"`
	ConfigVersion int32                                 `json:"configVersion"`
	Skipped       bool                                  `json:"skipped"`
	SkipReason    string                                `json:"skipReason,omitempty"`
	Allocation    *domain.AllocationSet                 `json:"allocation,omitempty"`
	Excluded      map[string]calculator.ExclusionReason `json:"excluded,omitempty"`
	Index         *l2_service.RecomputeResult           `json:"index,omitempty"`
}

type UpdateConfigResult struct {
	Config    domain.StrategyConfig `json:"config"`
	Rebalance *RebalanceResult      `json:"rebalance,omitempty"`
}

type StrategyService interface {
	Rebalance(ctx context.Context, in RebalanceInput) (*RebalanceResult, error)
	GetConfig(tx *sql.Tx) (*domain.StrategyConfig, error)
	ListConfigs(tx *sql.Tx) ([]domain.StrategyConfig, error)
	// UpdateConfig stores cfg as a new version. With recompute set it forces
	// an immediate rebalance under the new version.
	UpdateConfig(ctx context.Context, cfg domain.StrategyConfig, recompute bool) (*UpdateConfigResult, error)
}

type strategyServiceHandler struct {
	Db *sql.DB
	// mu serializes writers within this process, the advisory lock covers
	// other processes
	mu                         *sync.Mutex
	StrategyConfigRepository   repository.StrategyConfigRepository
	AllocationRepository       repository.AllocationRepository
	PriceObservationRepository repository.PriceObservationRepository
	AllocationService          l2_service.AllocationService
	IndexService               l2_service.IndexService
	DefaultConfig              domain.StrategyConfig
}

func NewStrategyService(
	db *sql.DB,
	strategyConfigRepository repository.StrategyConfigRepository,
	allocationRepository repository.AllocationRepository,
	priceObservationRepository repository.PriceObservationRepository,
	allocationService l2_service.AllocationService,
	indexService l2_service.IndexService,
	defaultConfig domain.StrategyConfig,
) StrategyService {
	return strategyServiceHandler{
		Db:                         db,
		mu:                         &sync.Mutex{},
		StrategyConfigRepository:   strategyConfigRepository,
		AllocationRepository:       allocationRepository,
		PriceObservationRepository: priceObservationRepository,
		AllocationService:          allocationService,
		IndexService:               indexService,
		DefaultConfig:              defaultConfig,
	}
}

// Rebalance computes and stores a new allocation when one is due, then
// recomputes the index from the rebalance date. A failed rebalance leaves the
// previous allocation in place.
func (h strategyServiceHandler) Rebalance(ctx context.Context, in RebalanceInput) (*RebalanceResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, endSpan := profile.StartNewSpan("acquire lock")
	if err := h.StrategyConfigRepository.Lock(tx); err != nil {
		return nil, err
	}
	endSpan()

	cfg, err := h.currentConfig(tx)
	if err != nil {
		return nil, err
	}

	date, err := h.rebalanceDate(tx, in.Date)
	if err != nil {
		return nil, err
	}

	result := &RebalanceResult{
		Date:          date,
		ConfigVersion: cfg.Version,
	}

	if !in.Force {
		last, err := h.AllocationRepository.GetLatest(tx)
		if err != nil {
			return nil, err
		}
		if last != nil {
			if !date.After(last.Date) {
				result.Skipped = true
				result.SkipReason = fmt.Sprintf("already rebalanced on %s", last.Date.Format(time.DateOnly))
				return result, nil
			}
			nextDue := cfg.RebalanceFrequency.NextDue(last.Date)
			if date.Before(nextDue) {
				result.Skipped = true
				result.SkipReason = fmt.Sprintf("next %s rebalance due %s", cfg.RebalanceFrequency, nextDue.Format(time.DateOnly))
				return result, nil
			}
		}
	}

	span, endSpan := profile.StartNewSpan("compute allocation")
	computed, err := h.AllocationService.ComputeAllocation(domain.NewCtxWithSubProfile(ctx, span), tx, date, *cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute allocation on %s: %w", date.Format(time.DateOnly), err)
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("store allocation")
	if err := h.AllocationRepository.Add(tx, computed.Allocation); err != nil {
		return nil, err
	}
	endSpan()

	span, endSpan = profile.StartNewSpan("recompute index")
	recompute, err := h.IndexService.Recompute(domain.NewCtxWithSubProfile(ctx, span), tx, &date)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute index: %w", err)
	}
	endSpan()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rebalance: %w", err)
	}

	log.Infof("rebalanced on %s with config v%d across %d assets", date.Format(time.DateOnly), cfg.Version, len(computed.Allocation.Weights))

	result.Allocation = &computed.Allocation
	result.Excluded = computed.Scores.Excluded
	result.Index = recompute
	return result, nil
}

// currentConfig returns the latest stored config, seeding the default as
// version 1 on first use.
func (h strategyServiceHandler) currentConfig(tx *sql.Tx) (*domain.StrategyConfig, error) {
	cfg, err := h.StrategyConfigRepository.GetLatest(tx)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	return h.StrategyConfigRepository.Add(tx, h.DefaultConfig)
}

func (h strategyServiceHandler) rebalanceDate(tx *sql.Tx, requested *time.Time) (time.Time, error) {
	if requested != nil {
		return *requested, nil
	}
	latest, err := h.PriceObservationRepository.LatestDate(tx)
	if err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, fmt.Errorf("no prices stored, refresh before rebalancing")
	}
	return *latest, nil
}

func (h strategyServiceHandler) GetConfig(tx *sql.Tx) (*domain.StrategyConfig, error) {
	cfg, err := h.StrategyConfigRepository.GetLatest(tx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		// version 0 means the default has not been stored yet
		defaultConfig := h.DefaultConfig
		return &defaultConfig, nil
	}
	return cfg, nil
}

func (h strategyServiceHandler) ListConfigs(tx *sql.Tx) ([]domain.StrategyConfig, error) {
	return h.StrategyConfigRepository.List(tx)
}

func (h strategyServiceHandler) UpdateConfig(ctx context.Context, cfg domain.StrategyConfig, recompute bool) (*UpdateConfigResult, error) {
	log := logger.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stored, err := h.addConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Infof("stored strategy config v%d", stored.Version)

	result := &UpdateConfigResult{
		Config: *stored,
	}
	if !recompute {
		return result, nil
	}

	rebalance, err := h.Rebalance(ctx, RebalanceInput{Force: true})
	if err != nil {
		return nil, fmt.Errorf("stored config v%d but failed to rebalance: %w", stored.Version, err)
	}
	result.Rebalance = rebalance

	return result, nil
}

func (h strategyServiceHandler) addConfig(ctx context.Context, cfg domain.StrategyConfig) (*domain.StrategyConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := h.StrategyConfigRepository.Lock(tx); err != nil {
		return nil, err
	}
	stored, err := h.StrategyConfigRepository.Add(tx, cfg)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit strategy config: %w", err)
	}
	return stored, nil
}

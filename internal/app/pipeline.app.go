package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"factorindex/internal/domain"
	"factorindex/internal/logger"
	l1_service "factorindex/internal/service/l1"
	l2_service "factorindex/internal/service/l2"
	l3_service "factorindex/internal/service/l3"
)

type RefreshCycleResult struct {
	Refresh   *domain.RefreshResult       `json:"refresh"`
	Rebalance *l3_service.RebalanceResult `json:"rebalance,omitempty"`
	Index     *l2_service.RecomputeResult `json:"index,omitempty"`
	Risk      []domain.RiskMetricSnapshot `json:"risk,omitempty"`
	Warnings  []string                    `json:"warnings,omitempty"`
}

type RebalanceCycleResult struct {
	Rebalance *l3_service.RebalanceResult `json:"rebalance"`
	Risk      []domain.RiskMetricSnapshot `json:"risk,omitempty"`
}

type RecomputeCycleResult struct {
	Index *l2_service.RecomputeResult `json:"index"`
	Risk  []domain.RiskMetricSnapshot `json:"risk,omitempty"`
}

// IndexPipeline strings the services together into the units of work the
// job queue runs.
type IndexPipeline struct {
	Db              *sql.DB
	RefreshService  l1_service.RefreshService
	StrategyService l3_service.StrategyService
	IndexService    l2_service.IndexService
	MetricsService  l3_service.MetricsService
}

// RefreshCycle refreshes market data, rebalances if one is due, then rebuilds
// the index from the earliest changed close and recomputes risk.
func (h IndexPipeline) RefreshCycle(ctx context.Context, mode domain.RefreshMode) (*RefreshCycleResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	cfg, err := h.StrategyService.GetConfig(nil)
	if err != nil {
		return nil, err
	}

	span, endSpan := profile.StartNewSpan("refresh")
	refresh, err := h.RefreshService.Refresh(domain.NewCtxWithSubProfile(ctx, span), l1_service.RefreshInput{
		Mode:       mode,
		Thresholds: cfg.Thresholds,
	})
	if err != nil {
		return nil, err
	}
	endSpan()

	out := &RefreshCycleResult{
		Refresh:  refresh,
		Warnings: []string{},
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	span, endSpan = profile.StartNewSpan("rebalance check")
	rebalance, err := h.StrategyService.Rebalance(domain.NewCtxWithSubProfile(ctx, span), l3_service.RebalanceInput{})
	var insufficient *domain.InsufficientAssetsError
	if errors.As(err, &insufficient) {
		// keep serving the previous allocation
		log.Warnf("rebalance skipped: %s", err.Error())
		out.Warnings = append(out.Warnings, err.Error())
	} else if err != nil {
		return out, err
	}
	out.Rebalance = rebalance
	endSpan()

	if refresh.EarliestChange == nil && (rebalance == nil || rebalance.Skipped) {
		return out, nil
	}

	if refresh.EarliestChange == nil {
		// the rebalance already rebuilt the index from its own date
		_, endSpan = profile.StartNewSpan("risk metrics")
		risk, err := h.computeRisk(ctx)
		if err != nil {
			return out, err
		}
		out.Risk = risk
		endSpan()
		return out, nil
	}

	span, endSpan = profile.StartNewSpan("recompute")
	recompute, err := h.recompute(domain.NewCtxWithSubProfile(ctx, span), refresh.EarliestChange)
	if err != nil {
		return out, err
	}
	out.Index = recompute.Index
	out.Risk = recompute.Risk
	endSpan()

	return out, nil
}

func (h IndexPipeline) Rebalance(ctx context.Context, force bool) (*RebalanceCycleResult, error) {
	rebalance, err := h.StrategyService.Rebalance(ctx, l3_service.RebalanceInput{Force: force})
	if err != nil {
		return nil, err
	}
	out := &RebalanceCycleResult{Rebalance: rebalance}
	if rebalance.Skipped {
		return out, nil
	}

	risk, err := h.computeRisk(ctx)
	if err != nil {
		return nil, err
	}
	out.Risk = risk
	return out, nil
}

// Recompute rebuilds the stored index from from, or entirely when from is nil.
func (h IndexPipeline) Recompute(ctx context.Context, from *time.Time) (*RecomputeCycleResult, error) {
	return h.recompute(ctx, from)
}

func (h IndexPipeline) recompute(ctx context.Context, from *time.Time) (*RecomputeCycleResult, error) {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	index, err := h.IndexService.Recompute(ctx, tx, from)
	if err != nil {
		return nil, err
	}
	risk, err := h.MetricsService.ComputeSnapshots(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit index recompute: %w", err)
	}

	return &RecomputeCycleResult{
		Index: index,
		Risk:  risk,
	}, nil
}

func (h IndexPipeline) computeRisk(ctx context.Context) ([]domain.RiskMetricSnapshot, error) {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	risk, err := h.MetricsService.ComputeSnapshots(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit risk metrics: %w", err)
	}
	return risk, nil
}

// RefreshJob adapts RefreshCycle to the job queue. A refresh that skipped
// failed batches finishes as partial.
func (h IndexPipeline) RefreshJob(mode domain.RefreshMode) JobFunc {
	return func(ctx context.Context) (any, bool, error) {
		result, err := h.RefreshCycle(ctx, mode)
		if err != nil {
			return result, false, err
		}
		return result, result.Refresh.IsPartial, nil
	}
}

func (h IndexPipeline) RebalanceJob(force bool) JobFunc {
	return func(ctx context.Context) (any, bool, error) {
		result, err := h.Rebalance(ctx, force)
		return result, false, err
	}
}

func (h IndexPipeline) RecomputeJob(from *time.Time) JobFunc {
	return func(ctx context.Context) (any, bool, error) {
		result, err := h.Recompute(ctx, from)
		return result, false, err
	}
}

// RiskMetricsJob recomputes every configured window from the stored index.
func (h IndexPipeline) RiskMetricsJob() JobFunc {
	return func(ctx context.Context) (any, bool, error) {
		result, err := h.computeRisk(ctx)
		return result, false, err
	}
}

package l3_service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	"factorindex/internal/repository"
	l2_service "factorindex/internal/service/l2"
	"factorindex/pkg/interest_rate"
)

type YieldCurveClient interface {
	GetYieldCurve(ctx context.Context, date time.Time) (*interestrate.InterestRateMap, error)
}

type RiskSettings struct {
	Windows []int `yaml:"windows"`
	// FallbackRiskFreeRate is annual, used when the yield curve is unavailable
	FallbackRiskFreeRate float64 `yaml:"fallbackRiskFreeRate"`
	MinSample            int     `yaml:"minSample"`
}

func DefaultRiskSettings() RiskSettings {
	return RiskSettings{
		Windows:              domain.DefaultRiskWindows,
		FallbackRiskFreeRate: 0.04,
		MinSample:            calculator.DefaultMinSample,
	}
}

type MetricsService interface {
	// ComputeSnapshots computes a snapshot per configured window as of the
	// latest index value and stores them.
	ComputeSnapshots(ctx context.Context, tx *sql.Tx) ([]domain.RiskMetricSnapshot, error)
	List(tx *sql.Tx, windowDays int, limit int) ([]domain.RiskMetricSnapshot, error)
}

type metricsServiceHandler struct {
	IndexValueRepository repository.IndexValueRepository
	RiskMetricRepository repository.RiskMetricRepository
	IndexService         l2_service.IndexService
	YieldCurveClient     YieldCurveClient
	Settings             RiskSettings
}

func NewMetricsService(
	indexValueRepository repository.IndexValueRepository,
	riskMetricRepository repository.RiskMetricRepository,
	indexService l2_service.IndexService,
	yieldCurveClient YieldCurveClient,
	settings RiskSettings,
) MetricsService {
	return metricsServiceHandler{
		IndexValueRepository: indexValueRepository,
		RiskMetricRepository: riskMetricRepository,
		IndexService:         indexService,
		YieldCurveClient:     yieldCurveClient,
		Settings:             settings,
	}
}

func (h metricsServiceHandler) ComputeSnapshots(ctx context.Context, tx *sql.Tx) ([]domain.RiskMetricSnapshot, error) {
	log := logger.FromContext(ctx)

	index, err := h.IndexValueRepository.List(tx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list index values: %w", err)
	}
	if len(index) == 0 {
		log.Info("no index values yet, skipping risk metrics")
		return []domain.RiskMetricSnapshot{}, nil
	}
	start := index[0].Date
	asOf := index[len(index)-1].Date

	benchmark, err := h.IndexService.Benchmark(ctx, tx, start, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark: %w", err)
	}

	riskFree := h.dailyRiskFreeRate(ctx, asOf)
	snapshots := calculator.ComputeRiskSnapshots(index, benchmark, h.Settings.Windows, riskFree, h.Settings.MinSample)

	if err := h.RiskMetricRepository.Upsert(tx, snapshots); err != nil {
		return nil, err
	}
	log.Infof("computed %d risk snapshots as of %s", len(snapshots), asOf.Format(time.DateOnly))

	return snapshots, nil
}

func (h metricsServiceHandler) dailyRiskFreeRate(ctx context.Context, date time.Time) float64 {
	log := logger.FromContext(ctx)
	fallback := h.Settings.FallbackRiskFreeRate / 252

	if h.YieldCurveClient == nil {
		return fallback
	}
	curve, err := h.YieldCurveClient.GetYieldCurve(ctx, date)
	if err != nil {
		log.Warnf("failed to get yield curve, using fallback risk-free rate: %s", err.Error())
		return fallback
	}
	rate, err := curve.DailyRiskFreeRate()
	if err != nil {
		log.Warnf("yield curve missing 3 month rate, using fallback: %s", err.Error())
		return fallback
	}
	return rate
}

func (h metricsServiceHandler) List(tx *sql.Tx, windowDays int, limit int) ([]domain.RiskMetricSnapshot, error) {
	return h.RiskMetricRepository.List(tx, windowDays, limit)
}

package l3_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"
	l2_service "factorindex/internal/service/l2"
	mock_l2_service "factorindex/internal/service/l2/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type strategyMocks struct {
	sql         sqlmock.Sqlmock
	configs     *mock_repository.MockStrategyConfigRepository
	allocations *mock_repository.MockAllocationRepository
	prices      *mock_repository.MockPriceObservationRepository
	allocator   *mock_l2_service.MockAllocationService
	index       *mock_l2_service.MockIndexService
}

func newTestStrategyService(t *testing.T) (StrategyService, strategyMocks) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := strategyMocks{
		sql:         sqlMock,
		configs:     mock_repository.NewMockStrategyConfigRepository(ctrl),
		allocations: mock_repository.NewMockAllocationRepository(ctrl),
		prices:      mock_repository.NewMockPriceObservationRepository(ctrl),
		allocator:   mock_l2_service.NewMockAllocationService(ctrl),
		index:       mock_l2_service.NewMockIndexService(ctrl),
	}
	svc := NewStrategyService(db, m.configs, m.allocations, m.prices, m.allocator, m.index, domain.DefaultStrategyConfig())
	return svc, m
}

func weeklyConfig(version int32) *domain.StrategyConfig {
	cfg := domain.DefaultStrategyConfig()
	cfg.Version = version
	cfg.RebalanceFrequency = domain.RebalanceWeekly
	return &cfg
}

func computedAllocation(date time.Time, version int32) *calculator.ComputeAllocationResult {
	return &calculator.ComputeAllocationResult{
		Allocation: domain.AllocationSet{
			Date:          date,
			ConfigVersion: version,
			Weights:       map[string]float64{"AAA": 0.6, "BBB": 0.4},
		},
		Scores: calculator.FactorScores{
			Date:     date,
			Included: []string{"AAA", "BBB"},
			Excluded: map[string]calculator.ExclusionReason{"CCC": calculator.ExcludedDailyDrop},
		},
	}
}

func Test_strategyServiceHandler_Rebalance(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("due rebalance stores the allocation and recomputes the index", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(weeklyConfig(2), nil)
		m.prices.EXPECT().LatestDate(gomock.Any()).Return(&today, nil)
		m.allocations.EXPECT().GetLatest(gomock.Any()).Return(&domain.AllocationSet{
			Date:          today.AddDate(0, 0, -7),
			ConfigVersion: 2,
			Weights:       map[string]float64{"AAA": 1},
		}, nil)
		m.allocator.EXPECT().ComputeAllocation(gomock.Any(), gomock.Any(), today, *weeklyConfig(2)).Return(computedAllocation(today, 2), nil)
		m.allocations.EXPECT().Add(gomock.Any(), computedAllocation(today, 2).Allocation).Return(nil)
		m.index.EXPECT().Recompute(gomock.Any(), gomock.Any(), &today).Return(&l2_service.RecomputeResult{From: &today, ValuesWritten: 1}, nil)
		m.sql.ExpectCommit()

		result, err := svc.Rebalance(context.Background(), RebalanceInput{})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.False(t, result.Skipped)
		require.Equal(t, int32(2), result.ConfigVersion)
		require.InDelta(t, 1.0, result.Allocation.Sum(), 1e-9)
		require.Equal(t, calculator.ExcludedDailyDrop, result.Excluded["CCC"])
		require.Equal(t, 1, result.Index.ValuesWritten)
	})

	t.Run("not due is a no-op", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(weeklyConfig(2), nil)
		m.prices.EXPECT().LatestDate(gomock.Any()).Return(&today, nil)
		m.allocations.EXPECT().GetLatest(gomock.Any()).Return(&domain.AllocationSet{
			Date:          today.AddDate(0, 0, -3),
			ConfigVersion: 2,
			Weights:       map[string]float64{"AAA": 1},
		}, nil)
		m.sql.ExpectRollback()

		result, err := svc.Rebalance(context.Background(), RebalanceInput{})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.True(t, result.Skipped)
		require.Contains(t, result.SkipReason, "2024-03-19")
		require.Nil(t, result.Allocation)
	})

	t.Run("same date without force is a no-op", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(weeklyConfig(2), nil)
		m.allocations.EXPECT().GetLatest(gomock.Any()).Return(&domain.AllocationSet{
			Date:          today,
			ConfigVersion: 2,
			Weights:       map[string]float64{"AAA": 1},
		}, nil)
		m.sql.ExpectRollback()

		result, err := svc.Rebalance(context.Background(), RebalanceInput{Date: &today})
		require.NoError(t, err)
		require.True(t, result.Skipped)
		require.Contains(t, result.SkipReason, "already rebalanced")
	})

	t.Run("force ignores the schedule", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(weeklyConfig(2), nil)
		m.allocator.EXPECT().ComputeAllocation(gomock.Any(), gomock.Any(), today, gomock.Any()).Return(computedAllocation(today, 2), nil)
		m.allocations.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)
		m.index.EXPECT().Recompute(gomock.Any(), gomock.Any(), &today).Return(&l2_service.RecomputeResult{}, nil)
		m.sql.ExpectCommit()

		result, err := svc.Rebalance(context.Background(), RebalanceInput{Force: true, Date: &today})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.False(t, result.Skipped)
	})

	t.Run("insufficient assets leaves the prior allocation untouched", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(weeklyConfig(2), nil)
		m.allocator.EXPECT().ComputeAllocation(gomock.Any(), gomock.Any(), today, gomock.Any()).Return(nil, &domain.InsufficientAssetsError{
			Required:  2,
			Available: 1,
			Reason:    "too few assets survived filtering",
		})
		m.sql.ExpectRollback()

		_, err := svc.Rebalance(context.Background(), RebalanceInput{Force: true, Date: &today})
		require.Error(t, err)
		var insufficient *domain.InsufficientAssetsError
		require.True(t, errors.As(err, &insufficient))
		require.NoError(t, m.sql.ExpectationsWereMet())
	})

	t.Run("first run seeds the default config", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(nil, nil)
		m.configs.EXPECT().Add(gomock.Any(), domain.DefaultStrategyConfig()).Return(weeklyConfig(1), nil)
		m.prices.EXPECT().LatestDate(gomock.Any()).Return(nil, nil)
		m.sql.ExpectRollback()

		_, err := svc.Rebalance(context.Background(), RebalanceInput{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no prices stored")
	})
}

func Test_strategyServiceHandler_UpdateConfig(t *testing.T) {
	t.Run("invalid config is rejected before any write", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		cfg := domain.DefaultStrategyConfig()
		cfg.FactorWeights = domain.FactorWeights{Momentum: 0.5, MarketCap: 0.3, RiskParity: 0.25}

		_, err := svc.UpdateConfig(context.Background(), cfg, true)
		require.Error(t, err)
		var invalid *domain.ConfigInvalidError
		require.True(t, errors.As(err, &invalid))
		require.NotEmpty(t, invalid.Reasons)
		require.NoError(t, m.sql.ExpectationsWereMet())
	})

	t.Run("recompute forces a rebalance under the new version", func(t *testing.T) {
		svc, m := newTestStrategyService(t)
		today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		cfg := domain.DefaultStrategyConfig()
		cfg.FactorWeights = domain.FactorWeights{Momentum: 1}

		stored := cfg
		stored.Version = 4

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil).Times(2)
		m.configs.EXPECT().Add(gomock.Any(), cfg).Return(&stored, nil)
		m.sql.ExpectCommit()

		m.sql.ExpectBegin()
		m.configs.EXPECT().GetLatest(gomock.Any()).Return(&stored, nil)
		m.prices.EXPECT().LatestDate(gomock.Any()).Return(&today, nil)
		m.allocator.EXPECT().ComputeAllocation(gomock.Any(), gomock.Any(), today, stored).Return(computedAllocation(today, 4), nil)
		m.allocations.EXPECT().Add(gomock.Any(), computedAllocation(today, 4).Allocation).Return(nil)
		m.index.EXPECT().Recompute(gomock.Any(), gomock.Any(), &today).Return(&l2_service.RecomputeResult{}, nil)
		m.sql.ExpectCommit()

		result, err := svc.UpdateConfig(context.Background(), cfg, true)
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.Equal(t, int32(4), result.Config.Version)
		require.NotNil(t, result.Rebalance)
		require.Equal(t, int32(4), result.Rebalance.ConfigVersion)
	})

	t.Run("without recompute only the config is stored", func(t *testing.T) {
		svc, m := newTestStrategyService(t)

		cfg := domain.DefaultStrategyConfig()
		stored := cfg
		stored.Version = 2

		m.sql.ExpectBegin()
		m.configs.EXPECT().Lock(gomock.Any()).Return(nil)
		m.configs.EXPECT().Add(gomock.Any(), cfg).Return(&stored, nil)
		m.sql.ExpectCommit()

		result, err := svc.UpdateConfig(context.Background(), cfg, false)
		require.NoError(t, err)
		require.Nil(t, result.Rebalance)
	})
}

func Test_strategyServiceHandler_GetConfig(t *testing.T) {
	svc, m := newTestStrategyService(t)
	m.configs.EXPECT().GetLatest(gomock.Nil()).Return(nil, nil)

	cfg, err := svc.GetConfig(nil)
	require.NoError(t, err)
	require.Equal(t, int32(0), cfg.Version)
	require.Equal(t, domain.DefaultStrategyConfig().FactorWeights, cfg.FactorWeights)
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"factorindex/internal/domain"
	l1_service "factorindex/internal/service/l1"
	mock_l1_service "factorindex/internal/service/l1/mocks"
	l2_service "factorindex/internal/service/l2"
	mock_l2_service "factorindex/internal/service/l2/mocks"
	l3_service "factorindex/internal/service/l3"
	mock_l3_service "factorindex/internal/service/l3/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pipelineMocks struct {
	sql      sqlmock.Sqlmock
	refresh  *mock_l1_service.MockRefreshService
	strategy *mock_l3_service.MockStrategyService
	index    *mock_l2_service.MockIndexService
	metrics  *mock_l3_service.MockMetricsService
}

func newTestPipeline(t *testing.T) (IndexPipeline, pipelineMocks) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := pipelineMocks{
		sql:      sqlMock,
		refresh:  mock_l1_service.NewMockRefreshService(ctrl),
		strategy: mock_l3_service.NewMockStrategyService(ctrl),
		index:    mock_l2_service.NewMockIndexService(ctrl),
		metrics:  mock_l3_service.NewMockMetricsService(ctrl),
	}
	return IndexPipeline{
		Db:              db,
		RefreshService:  m.refresh,
		StrategyService: m.strategy,
		IndexService:    m.index,
		MetricsService:  m.metrics,
	}, m
}

func TestIndexPipeline_RefreshCycle(t *testing.T) {
	earliest := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	cfg := domain.DefaultStrategyConfig()

	t.Run("new closes rebuild the index and risk", func(t *testing.T) {
		h, m := newTestPipeline(t)

		m.strategy.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)
		m.refresh.EXPECT().Refresh(gomock.Any(), l1_service.RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: cfg.Thresholds,
		}).Return(&domain.RefreshResult{
			AssetsUpdated:  3,
			AssetsFailed:   []string{"ZZZ"},
			IsPartial:      true,
			EarliestChange: &earliest,
		}, nil)
		m.strategy.EXPECT().Rebalance(gomock.Any(), l3_service.RebalanceInput{}).Return(&l3_service.RebalanceResult{Skipped: true}, nil)
		m.sql.ExpectBegin()
		m.index.EXPECT().Recompute(gomock.Any(), gomock.Any(), &earliest).Return(&l2_service.RecomputeResult{From: &earliest, ValuesWritten: 2}, nil)
		m.metrics.EXPECT().ComputeSnapshots(gomock.Any(), gomock.Any()).Return([]domain.RiskMetricSnapshot{{WindowDays: 30}}, nil)
		m.sql.ExpectCommit()

		result, err := h.RefreshCycle(context.Background(), domain.RefreshModeMinimal)
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.Equal(t, 2, result.Index.ValuesWritten)
		require.Len(t, result.Risk, 1)
	})

	t.Run("insufficient assets is a warning", func(t *testing.T) {
		h, m := newTestPipeline(t)

		m.strategy.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)
		m.refresh.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(&domain.RefreshResult{
			AssetsFailed: []string{},
		}, nil)
		m.strategy.EXPECT().Rebalance(gomock.Any(), gomock.Any()).Return(nil, &domain.InsufficientAssetsError{Required: 2, Available: 1})

		result, err := h.RefreshCycle(context.Background(), domain.RefreshModeMinimal)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		require.Nil(t, result.Index)
	})

	t.Run("refresh failure stops the cycle", func(t *testing.T) {
		h, m := newTestPipeline(t)

		m.strategy.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)
		m.refresh.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(nil, domain.ErrRefreshFailed)

		_, err := h.RefreshCycle(context.Background(), domain.RefreshModeFull)
		require.True(t, errors.Is(err, domain.ErrRefreshFailed))
	})

	t.Run("rebalance without new closes only recomputes risk", func(t *testing.T) {
		h, m := newTestPipeline(t)

		m.strategy.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)
		m.refresh.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(&domain.RefreshResult{AssetsFailed: []string{}}, nil)
		m.strategy.EXPECT().Rebalance(gomock.Any(), gomock.Any()).Return(&l3_service.RebalanceResult{Date: earliest}, nil)
		m.sql.ExpectBegin()
		m.metrics.EXPECT().ComputeSnapshots(gomock.Any(), gomock.Any()).Return([]domain.RiskMetricSnapshot{}, nil)
		m.sql.ExpectCommit()

		result, err := h.RefreshCycle(context.Background(), domain.RefreshModeMinimal)
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.Nil(t, result.Index)
	})
}

func TestIndexPipeline_RefreshJob(t *testing.T) {
	h, m := newTestPipeline(t)
	cfg := domain.DefaultStrategyConfig()

	m.strategy.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)
	m.refresh.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(&domain.RefreshResult{
		AssetsFailed: []string{"ZZZ"},
		IsPartial:    true,
	}, nil)
	m.strategy.EXPECT().Rebalance(gomock.Any(), gomock.Any()).Return(&l3_service.RebalanceResult{Skipped: true}, nil)

	_, partial, err := h.RefreshJob(domain.RefreshModeMinimal)(context.Background())
	require.NoError(t, err)
	require.True(t, partial)
}

func TestIndexPipeline_Rebalance(t *testing.T) {
	t.Run("skipped rebalance does not touch risk", func(t *testing.T) {
		h, m := newTestPipeline(t)
		m.strategy.EXPECT().Rebalance(gomock.Any(), l3_service.RebalanceInput{Force: false}).Return(&l3_service.RebalanceResult{Skipped: true}, nil)

		result, err := h.Rebalance(context.Background(), false)
		require.NoError(t, err)
		require.True(t, result.Rebalance.Skipped)
	})

	t.Run("forced rebalance recomputes risk", func(t *testing.T) {
		h, m := newTestPipeline(t)
		m.strategy.EXPECT().Rebalance(gomock.Any(), l3_service.RebalanceInput{Force: true}).Return(&l3_service.RebalanceResult{}, nil)
		m.sql.ExpectBegin()
		m.metrics.EXPECT().ComputeSnapshots(gomock.Any(), gomock.Any()).Return([]domain.RiskMetricSnapshot{{WindowDays: 0}}, nil)
		m.sql.ExpectCommit()

		result, err := h.Rebalance(context.Background(), true)
		require.NoError(t, err)
		require.Len(t, result.Risk, 1)
	})
}

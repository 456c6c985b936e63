package l3_service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"
	mock_l2_service "factorindex/internal/service/l2/mocks"
	"factorindex/pkg/interest_rate"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeYieldCurve struct {
	curve *interestrate.InterestRateMap
	err   error
}

func (f fakeYieldCurve) GetYieldCurve(ctx context.Context, date time.Time) (*interestrate.InterestRateMap, error) {
	return f.curve, f.err
}

func trendingIndex(n int) []domain.IndexValue {
	out := []domain.IndexValue{}
	value := 100.0
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		if i > 0 {
			value *= 1 + 0.01*math.Sin(float64(i))
		}
		out = append(out, domain.IndexValue{Date: start.AddDate(0, 0, i), Value: value})
	}
	return out
}

func Test_metricsServiceHandler_dailyRiskFreeRate(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	settings := RiskSettings{FallbackRiskFreeRate: 0.0504}

	t.Run("uses the 3 month yield", func(t *testing.T) {
		h := metricsServiceHandler{
			Settings: settings,
			YieldCurveClient: fakeYieldCurve{curve: &interestrate.InterestRateMap{
				Rates: map[int]float64{3: 0.0252},
			}},
		}
		require.InDelta(t, 0.0001, h.dailyRiskFreeRate(context.Background(), date), 1e-12)
	})

	t.Run("falls back when the curve is unavailable", func(t *testing.T) {
		h := metricsServiceHandler{
			Settings:         settings,
			YieldCurveClient: fakeYieldCurve{err: errors.New("502")},
		}
		require.InDelta(t, 0.0002, h.dailyRiskFreeRate(context.Background(), date), 1e-12)
	})

	t.Run("falls back without a client", func(t *testing.T) {
		h := metricsServiceHandler{Settings: settings}
		require.InDelta(t, 0.0002, h.dailyRiskFreeRate(context.Background(), date), 1e-12)
	})
}

func Test_metricsServiceHandler_ComputeSnapshots(t *testing.T) {
	t.Run("stores one snapshot per window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		indexValueRepository := mock_repository.NewMockIndexValueRepository(ctrl)
		riskMetricRepository := mock_repository.NewMockRiskMetricRepository(ctrl)
		indexService := mock_l2_service.NewMockIndexService(ctrl)

		h := metricsServiceHandler{
			IndexValueRepository: indexValueRepository,
			RiskMetricRepository: riskMetricRepository,
			IndexService:         indexService,
			Settings:             DefaultRiskSettings(),
		}

		index := trendingIndex(60)
		asOf := index[len(index)-1].Date
		indexValueRepository.EXPECT().List(gomock.Nil(), gomock.Nil(), gomock.Nil()).Return(index, nil)
		indexService.EXPECT().Benchmark(gomock.Any(), gomock.Nil(), index[0].Date, asOf).Return(index, nil)

		var stored []domain.RiskMetricSnapshot
		riskMetricRepository.EXPECT().Upsert(gomock.Nil(), gomock.Any()).DoAndReturn(func(_ any, snapshots []domain.RiskMetricSnapshot) error {
			stored = snapshots
			return nil
		})

		snapshots, err := h.ComputeSnapshots(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, snapshots, len(domain.DefaultRiskWindows))
		require.Equal(t, snapshots, stored)

		for _, s := range snapshots {
			require.Equal(t, asOf, s.Date)
			require.NotNil(t, s.Volatility)
			require.NotNil(t, s.Beta)
			require.InDelta(t, 1.0, *s.Beta, 1e-9)
		}
	})

	t.Run("empty index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		indexValueRepository := mock_repository.NewMockIndexValueRepository(ctrl)
		h := metricsServiceHandler{
			IndexValueRepository: indexValueRepository,
			Settings:             DefaultRiskSettings(),
		}
		indexValueRepository.EXPECT().List(gomock.Nil(), gomock.Nil(), gomock.Nil()).Return([]domain.IndexValue{}, nil)

		snapshots, err := h.ComputeSnapshots(context.Background(), nil)
		require.NoError(t, err)
		require.Empty(t, snapshots)
	})
}

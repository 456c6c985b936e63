package l2_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"
	l1_service "factorindex/internal/service/l1"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testDate(day int) time.Time {
	return time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC)
}

func testConfig() domain.StrategyConfig {
	cfg := domain.DefaultStrategyConfig()
	cfg.Version = 3
	cfg.LookbackDays = 2
	cfg.VolatilityDays = 2
	cfg.Thresholds.DailyDropThreshold = -0.01
	cfg.Constraints.MaxWeight = 1
	cfg.Constraints.MinWeight = 0
	return cfg
}

func Test_allocationServiceHandler_ComputeAllocation(t *testing.T) {
	date := testDate(7)
	days := []time.Time{testDate(5), testDate(6), testDate(7)}

	t.Run("drops the falling asset and normalizes the rest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		marketCapRepository := mock_repository.NewMockMarketCapRepository(ctrl)
		priceRepository := mock_repository.NewMockPriceObservationRepository(ctrl)

		h := allocationServiceHandler{
			AssetRepository:     assetRepository,
			MarketCapRepository: marketCapRepository,
			PriceService:        l1_service.NewPriceService(priceRepository),
		}

		symbols := []string{"AAA", "BBB", "CCC"}
		assetRepository.EXPECT().ListActive(gomock.Nil()).Return([]domain.Asset{
			{Symbol: "AAA", IsActive: true},
			{Symbol: "BBB", IsActive: true},
			{Symbol: "CCC", IsActive: true},
		}, nil)
		priceRepository.EXPECT().ListTradingDays(gomock.Nil(), gomock.Any(), date).Return(days, nil).Times(2)
		priceRepository.EXPECT().List(gomock.Nil(), symbols, days[0], date).Return(domain.PriceSeries{
			"AAA": {{Date: days[0], Close: 100}, {Date: days[1], Close: 101}, {Date: days[2], Close: 103}},
			"BBB": {{Date: days[0], Close: 100}, {Date: days[1], Close: 102}, {Date: days[2], Close: 104}},
			"CCC": {{Date: days[0], Close: 100}, {Date: days[1], Close: 102}, {Date: days[2], Close: 99}},
		}, nil)
		marketCapRepository.EXPECT().GetLatest(gomock.Nil(), symbols, date).Return(map[string]float64{
			"AAA": 3e9,
			"BBB": 1e9,
			"CCC": 5e9,
		}, nil)

		result, err := h.ComputeAllocation(context.Background(), nil, date, testConfig())
		require.NoError(t, err)
		require.Equal(t, int32(3), result.Allocation.ConfigVersion)
		require.Equal(t, date, result.Allocation.Date)
		require.NotContains(t, result.Allocation.Weights, "CCC")
		require.Len(t, result.Allocation.Weights, 2)
		require.InDelta(t, 1.0, result.Allocation.Sum(), 1e-9)
		require.Contains(t, result.Scores.Excluded, "CCC")
	})

	t.Run("too few active assets", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)

		h := allocationServiceHandler{
			AssetRepository: assetRepository,
		}

		assetRepository.EXPECT().ListActive(gomock.Nil()).Return([]domain.Asset{
			{Symbol: "AAA", IsActive: true},
		}, nil)

		_, err := h.ComputeAllocation(context.Background(), nil, date, testConfig())
		require.Error(t, err)
		var insufficient *domain.InsufficientAssetsError
		require.True(t, errors.As(err, &insufficient))
		require.Equal(t, 2, insufficient.Required)
		require.Equal(t, 1, insufficient.Available)
	})
}

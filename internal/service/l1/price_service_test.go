package l1_service

import (
	"context"
	"testing"
	"time"

	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_priceServiceHandler_LoadTrailingWindow(t *testing.T) {
	asOf := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("keeps the last n trading days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceObservationRepository(ctrl)
		h := priceServiceHandler{PriceObservationRepository: priceRepository}

		allDays := []time.Time{
			time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		}
		windowDays := allDays[2:]
		prices := domain.PriceSeries{
			"AAA": {
				{Date: windowDays[0], Close: 10},
				{Date: windowDays[1], Close: 11},
				{Date: windowDays[2], Close: 12},
			},
		}

		priceRepository.EXPECT().ListTradingDays(gomock.Nil(), asOf.AddDate(0, 0, -16), asOf).Return(allDays, nil)
		priceRepository.EXPECT().ListTradingDays(gomock.Nil(), windowDays[0], asOf).Return(windowDays, nil)
		priceRepository.EXPECT().List(gomock.Nil(), []string{"AAA"}, windowDays[0], asOf).Return(prices, nil)

		window, err := h.LoadTrailingWindow(context.Background(), nil, []string{"AAA"}, asOf, 3)
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(windowDays, window.TradingDays))
		require.Equal(t, "", cmp.Diff(prices, window.Prices))
		require.Equal(t, windowDays[0], *window.Start())
	})

	t.Run("no stored prices", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceObservationRepository(ctrl)
		h := priceServiceHandler{PriceObservationRepository: priceRepository}

		priceRepository.EXPECT().ListTradingDays(gomock.Nil(), gomock.Any(), asOf).Return([]time.Time{}, nil)

		window, err := h.LoadTrailingWindow(context.Background(), nil, []string{"AAA"}, asOf, 3)
		require.NoError(t, err)
		require.Nil(t, window.Start())
		require.Empty(t, window.Prices)
	})

	t.Run("rejects an empty window", func(t *testing.T) {
		h := priceServiceHandler{}
		_, err := h.LoadTrailingWindow(context.Background(), nil, []string{"AAA"}, asOf, 0)
		require.Error(t, err)
	})
}

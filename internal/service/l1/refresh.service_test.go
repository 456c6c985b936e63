package l1_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"
	"factorindex/internal/provider"
	mock_provider "factorindex/internal/provider/mocks"
	mock_repository "factorindex/internal/repository/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type refreshMocks struct {
	sql        sqlmock.Sqlmock
	assets     *mock_repository.MockAssetRepository
	prices     *mock_repository.MockPriceObservationRepository
	marketCaps *mock_repository.MockMarketCapRepository
	fx         *mock_repository.MockFxRateRepository
	alpaca     *mock_repository.MockAlpacaRepository
	provider   *mock_provider.MockMarketDataProvider
}

func newTestRefreshService(t *testing.T) (refreshServiceHandler, refreshMocks) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := refreshMocks{
		sql:        sqlMock,
		assets:     mock_repository.NewMockAssetRepository(ctrl),
		prices:     mock_repository.NewMockPriceObservationRepository(ctrl),
		marketCaps: mock_repository.NewMockMarketCapRepository(ctrl),
		fx:         mock_repository.NewMockFxRateRepository(ctrl),
		alpaca:     mock_repository.NewMockAlpacaRepository(ctrl),
		provider:   mock_provider.NewMockMarketDataProvider(ctrl),
	}
	m.provider.EXPECT().Name().Return("alpaca").AnyTimes()
	m.provider.EXPECT().MaxBatchSize().Return(1).AnyTimes()

	h := refreshServiceHandler{
		Db:                         db,
		AssetRepository:            m.assets,
		PriceObservationRepository: m.prices,
		MarketCapRepository:        m.marketCaps,
		FxRateRepository:           m.fx,
		AlpacaRepository:           m.alpaca,
		Provider:                   m.provider,
		Settings: RefreshSettings{
			BackfillDays:   365,
			HistoryDays:    30,
			MaxConcurrency: 2,
		},
		Now: func() time.Time {
			return time.Date(2024, 1, 5, 21, 0, 0, 0, time.UTC)
		},
	}
	return h, m
}

func refreshDate(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func activeAssets(symbols ...string) []domain.Asset {
	out := []domain.Asset{}
	for _, s := range symbols {
		out = append(out, domain.Asset{Symbol: s, Currency: "USD", IsActive: true})
	}
	return out
}

func closes(values ...float64) []domain.PricePoint {
	out := []domain.PricePoint{}
	for i, v := range values {
		out = append(out, domain.PricePoint{Date: refreshDate(3 + i), Close: v})
	}
	return out
}

func Test_refreshServiceHandler_Refresh(t *testing.T) {
	expectedRange := domain.DateRange{Start: refreshDate(3), End: refreshDate(5)}

	t.Run("partial failure writes the successful batches", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		latest := refreshDate(2)

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA", "BBB", "CCC"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "BBB", "CCC"}).Return(map[string]time.Time{
			"AAA": latest,
			"BBB": latest,
			"CCC": latest,
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"AAA"}, expectedRange).Return(map[string][]domain.PricePoint{
			"AAA": closes(100, 101, 102),
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"BBB"}, expectedRange).Return(nil, &domain.ProviderError{
			Provider:   "alpaca",
			StatusCode: 503,
			Err:        errors.New("unavailable"),
		})
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"CCC"}, expectedRange).Return(map[string][]domain.PricePoint{
			"CCC": closes(50, 51, 52),
		}, nil)
		m.prices.EXPECT().List(gomock.Nil(), []string{"AAA", "CCC"}, gomock.Any(), gomock.Any()).Return(domain.PriceSeries{}, nil)
		m.provider.EXPECT().FetchMarketCaps(gomock.Any(), []string{"AAA", "CCC"}).Return(map[string]float64{
			"AAA": 3e9,
			"CCC": 1e9,
		}, nil)

		m.sql.ExpectBegin()
		var written []model.PriceObservation
		m.prices.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, rows []model.PriceObservation) error {
			written = rows
			return nil
		})
		m.marketCaps.EXPECT().Upsert(gomock.Any(), gomock.Len(2)).Return(nil)
		m.fx.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)
		m.sql.ExpectCommit()

		result, err := h.Refresh(context.Background(), RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: domain.DefaultStrategyConfig().Thresholds,
		})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())

		require.Equal(t, 2, result.AssetsUpdated)
		require.Equal(t, []string{"BBB"}, result.AssetsFailed)
		require.True(t, result.IsPartial)
		require.Equal(t, 8, result.RowsWritten)
		require.Equal(t, expectedRange, result.Range)
		require.NotNil(t, result.EarliestChange)
		require.Equal(t, refreshDate(3), *result.EarliestChange)

		require.Len(t, written, 6)
		for _, row := range written {
			require.Equal(t, "alpaca", row.Source)
			require.NotEqual(t, "BBB", row.Symbol)
		}
	})

	t.Run("a symbol that failed earlier is fetched from its own last date", func(t *testing.T) {
		h, m := newTestRefreshService(t)

		// AAA and CCC were written through the 4th, BBB failed on that run
		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA", "BBB", "CCC"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "BBB", "CCC"}).Return(map[string]time.Time{
			"AAA": refreshDate(4),
			"BBB": refreshDate(2),
			"CCC": refreshDate(4),
		}, nil)

		catchUp := domain.DateRange{Start: refreshDate(3), End: refreshDate(5)}
		current := domain.DateRange{Start: refreshDate(5), End: refreshDate(5)}
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"BBB"}, catchUp).Return(map[string][]domain.PricePoint{
			"BBB": closes(20, 20.5, 21),
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"AAA"}, current).Return(map[string][]domain.PricePoint{
			"AAA": {{Date: refreshDate(5), Close: 102}},
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"CCC"}, current).Return(map[string][]domain.PricePoint{
			"CCC": {{Date: refreshDate(5), Close: 52}},
		}, nil)
		m.prices.EXPECT().List(gomock.Nil(), []string{"BBB", "AAA", "CCC"}, gomock.Any(), refreshDate(4)).Return(domain.PriceSeries{
			"AAA": {{Date: refreshDate(3), Close: 100}, {Date: refreshDate(4), Close: 101}},
			"BBB": {{Date: refreshDate(2), Close: 19.8}},
			"CCC": {{Date: refreshDate(3), Close: 50}, {Date: refreshDate(4), Close: 51}},
		}, nil)
		m.provider.EXPECT().FetchMarketCaps(gomock.Any(), gomock.Any()).Return(map[string]float64{}, nil)

		m.sql.ExpectBegin()
		var written []model.PriceObservation
		m.prices.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, rows []model.PriceObservation) error {
			written = rows
			return nil
		})
		m.marketCaps.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)
		m.fx.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)
		m.sql.ExpectCommit()

		result, err := h.Refresh(context.Background(), RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: domain.DefaultStrategyConfig().Thresholds,
		})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())

		require.Equal(t, catchUp, result.Range)
		require.Equal(t, 3, result.AssetsUpdated)
		require.False(t, result.IsPartial)
		require.Equal(t, refreshDate(3), *result.EarliestChange)

		byDate := map[string][]time.Time{}
		for _, row := range written {
			byDate[row.Symbol] = append(byDate[row.Symbol], row.Date)
		}
		require.Equal(t, "", cmp.Diff(map[string][]time.Time{
			"BBB": {refreshDate(3), refreshDate(4), refreshDate(5)},
			"AAA": {refreshDate(5)},
			"CCC": {refreshDate(5)},
		}, byDate))
	})

	t.Run("auxiliary fetches fail fast and the price write still commits", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		h.Settings.FxPairs = []string{"EUR/USD"}
		latest := refreshDate(4)

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA"}).Return(map[string]time.Time{"AAA": latest}, nil)
		var pricesNonBlocking bool
		m.provider.EXPECT().FetchPrices(gomock.Any(), []string{"AAA"}, gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ []string, _ domain.DateRange) (map[string][]domain.PricePoint, error) {
				pricesNonBlocking = provider.IsNonBlocking(ctx)
				return map[string][]domain.PricePoint{"AAA": {{Date: refreshDate(5), Close: 10}}}, nil
			},
		)
		m.prices.EXPECT().List(gomock.Nil(), []string{"AAA"}, gomock.Any(), gomock.Any()).Return(domain.PriceSeries{}, nil)
		m.provider.EXPECT().FetchMarketCaps(gomock.Any(), []string{"AAA"}).DoAndReturn(
			func(ctx context.Context, _ []string) (map[string]float64, error) {
				require.True(t, provider.IsNonBlocking(ctx))
				return nil, &domain.RateLimitedError{Provider: "alpaca", RetryAfter: time.Minute}
			},
		)
		m.provider.EXPECT().FetchFx(gomock.Any(), []string{"EUR/USD"}, refreshDate(5)).DoAndReturn(
			func(ctx context.Context, _ []string, _ time.Time) (map[string]float64, error) {
				require.True(t, provider.IsNonBlocking(ctx))
				return nil, &domain.RateLimitedError{Provider: "alpaca", RetryAfter: time.Minute}
			},
		)

		m.sql.ExpectBegin()
		m.prices.EXPECT().Upsert(gomock.Any(), gomock.Len(1)).Return(nil)
		m.marketCaps.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)
		m.fx.EXPECT().Upsert(gomock.Any(), gomock.Len(0)).Return(nil)
		m.sql.ExpectCommit()

		result, err := h.Refresh(context.Background(), RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: domain.DefaultStrategyConfig().Thresholds,
		})
		require.NoError(t, err)
		require.NoError(t, m.sql.ExpectationsWereMet())
		require.Equal(t, 1, result.RowsWritten)
		require.False(t, pricesNonBlocking)
	})

	t.Run("all batches failing is a refresh failure", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		latest := refreshDate(2)

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA", "BBB"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "BBB"}).Return(map[string]time.Time{
			"AAA": latest,
			"BBB": latest,
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), gomock.Any(), expectedRange).Return(nil, &domain.ProviderError{
			Provider:   "alpaca",
			StatusCode: 500,
			Err:        errors.New("boom"),
		}).Times(2)

		_, err := h.Refresh(context.Background(), RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: domain.DefaultStrategyConfig().Thresholds,
		})
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrRefreshFailed)
		require.NoError(t, m.sql.ExpectationsWereMet())
	})

	t.Run("cancellation discards staged rows", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		h.Settings.MaxConcurrency = 1
		latest := refreshDate(2)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA", "BBB"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "BBB"}).Return(map[string]time.Time{
			"AAA": latest,
			"BBB": latest,
		}, nil)
		m.provider.EXPECT().FetchPrices(gomock.Any(), gomock.Any(), expectedRange).DoAndReturn(
			func(_ context.Context, symbols []string, _ domain.DateRange) (map[string][]domain.PricePoint, error) {
				cancel()
				return map[string][]domain.PricePoint{symbols[0]: closes(10, 11, 12)}, nil
			},
		).MinTimes(1).MaxTimes(2)

		_, err := h.Refresh(ctx, RefreshInput{
			Mode:       domain.RefreshModeMinimal,
			Thresholds: domain.DefaultStrategyConfig().Thresholds,
		})
		require.Error(t, err)
		require.True(t, errors.Is(err, context.Canceled))
		require.NoError(t, m.sql.ExpectationsWereMet())
	})

	t.Run("current data is a no-op", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		latest := refreshDate(5)

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(false, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA"}).Return(map[string]time.Time{"AAA": latest}, nil)

		result, err := h.Refresh(context.Background(), RefreshInput{Mode: domain.RefreshModeMinimal})
		require.NoError(t, err)
		require.Equal(t, 0, result.RowsWritten)
		require.Nil(t, result.EarliestChange)
		require.True(t, result.Range.IsEmpty())
	})

	t.Run("open market excludes today", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		latest := refreshDate(4)

		m.assets.EXPECT().ListActive(gomock.Nil()).Return(activeAssets("AAA"), nil)
		m.alpaca.EXPECT().IsMarketOpen().Return(true, nil)
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA"}).Return(map[string]time.Time{"AAA": latest}, nil)

		result, err := h.Refresh(context.Background(), RefreshInput{Mode: domain.RefreshModeMinimal})
		require.NoError(t, err)
		require.Equal(t, refreshDate(4), result.Range.End)
		require.Equal(t, 0, result.RowsWritten)
	})
}

func Test_refreshServiceHandler_targetRanges(t *testing.T) {
	backfillStart := refreshDate(5).AddDate(0, 0, -365)

	t.Run("full mode backfills regardless of stored data", func(t *testing.T) {
		h, _ := newTestRefreshService(t)
		h.AlpacaRepository = nil

		ranges, span, err := h.targetRanges(context.Background(), domain.RefreshModeFull, []string{"AAA", "BBB"})
		require.NoError(t, err)
		full := domain.DateRange{Start: backfillStart, End: refreshDate(5)}
		require.Equal(t, "", cmp.Diff(full, span))
		require.Equal(t, "", cmp.Diff(map[string]domain.DateRange{"AAA": full, "BBB": full}, ranges))
	})

	t.Run("symbols without stored data backfill", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		h.AlpacaRepository = nil
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "NEW"}).Return(map[string]time.Time{
			"AAA": refreshDate(3),
		}, nil)

		ranges, span, err := h.targetRanges(context.Background(), domain.RefreshModeMinimal, []string{"AAA", "NEW"})
		require.NoError(t, err)
		require.Equal(t, backfillStart, span.Start)
		require.Equal(t, "", cmp.Diff(map[string]domain.DateRange{
			"AAA": {Start: refreshDate(4), End: refreshDate(5)},
			"NEW": {Start: backfillStart, End: refreshDate(5)},
		}, ranges))
	})

	t.Run("current symbols are left out", func(t *testing.T) {
		h, m := newTestRefreshService(t)
		h.AlpacaRepository = nil
		m.prices.EXPECT().LatestDates(gomock.Nil(), []string{"AAA", "BBB"}).Return(map[string]time.Time{
			"AAA": refreshDate(5),
			"BBB": refreshDate(1),
		}, nil)

		ranges, span, err := h.targetRanges(context.Background(), domain.RefreshModeMinimal, []string{"AAA", "BBB"})
		require.NoError(t, err)
		require.Equal(t, domain.DateRange{Start: refreshDate(2), End: refreshDate(5)}, span)
		require.Equal(t, "", cmp.Diff(map[string]domain.DateRange{
			"BBB": {Start: refreshDate(2), End: refreshDate(5)},
		}, ranges))
	})
}

func Test_batchesByStart(t *testing.T) {
	early := domain.DateRange{Start: refreshDate(1), End: refreshDate(5)}
	late := domain.DateRange{Start: refreshDate(4), End: refreshDate(5)}

	got := batchesByStart([]string{"AAA", "BBB", "CCC", "DDD", "EEE"}, map[string]domain.DateRange{
		"AAA": late,
		"BBB": early,
		"CCC": late,
		"EEE": late,
	}, 2)

	require.Equal(t, "", cmp.Diff([]refreshBatch{
		{symbols: []string{"BBB"}, r: early},
		{symbols: []string{"AAA", "CCC"}, r: late},
		{symbols: []string{"EEE"}, r: late},
	}, got, cmp.AllowUnexported(refreshBatch{})))
}

func Test_refreshServiceHandler_poolSize(t *testing.T) {
	h := refreshServiceHandler{Settings: RefreshSettings{MaxConcurrency: 4, RequestsPerMinute: 2}}
	require.Equal(t, 2, h.poolSize(10))
	require.Equal(t, 1, h.poolSize(1))

	h.Settings = RefreshSettings{}
	require.Equal(t, 7, h.poolSize(7))
	require.Equal(t, 1, h.poolSize(0))
}

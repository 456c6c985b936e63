package l1_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"factorindex/internal/calculator"
	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	"factorindex/internal/provider"
	"factorindex/internal/repository"

	"github.com/shopspring/decimal"
)

type RefreshSettings struct {
	BackfillDays    int      `yaml:"backfillDays"`
	HistoryDays     int      `yaml:"historyDays"`
	BenchmarkSymbol string   `yaml:"benchmarkSymbol"`
	FxPairs         []string `yaml:"fxPairs"`
	MaxConcurrency  int      `yaml:"maxConcurrency"`
	// RequestsPerMinute bounds the worker pool, 0 means no bound
	RequestsPerMinute int `yaml:"-"`
}

func DefaultRefreshSettings() RefreshSettings {
	return RefreshSettings{
		BackfillDays:    365,
		HistoryDays:     30,
		BenchmarkSymbol: "SPY",
		MaxConcurrency:  4,
	}
}

type RefreshInput struct {
	Mode       domain.RefreshMode
	Thresholds domain.Thresholds
}

type RefreshService interface {
	Refresh(ctx context.Context, in RefreshInput) (*domain.RefreshResult, error)
}

type refreshServiceHandler struct {
	Db                         *sql.DB
	AssetRepository            repository.AssetRepository
	PriceObservationRepository repository.PriceObservationRepository
	MarketCapRepository        repository.MarketCapRepository
	FxRateRepository           repository.FxRateRepository
	// AlpacaRepository is only used for the market clock and may be nil
	AlpacaRepository repository.AlpacaRepository
	Provider         provider.MarketDataProvider
	Settings         RefreshSettings
	Now              func() time.Time
}

func NewRefreshService(
	db *sql.DB,
	assetRepository repository.AssetRepository,
	priceObservationRepository repository.PriceObservationRepository,
	marketCapRepository repository.MarketCapRepository,
	fxRateRepository repository.FxRateRepository,
	alpacaRepository repository.AlpacaRepository,
	marketDataProvider provider.MarketDataProvider,
	settings RefreshSettings,
) RefreshService {
	return refreshServiceHandler{
		Db:                         db,
		AssetRepository:            assetRepository,
		PriceObservationRepository: priceObservationRepository,
		MarketCapRepository:        marketCapRepository,
		FxRateRepository:           fxRateRepository,
		AlpacaRepository:           alpacaRepository,
		Provider:                   marketDataProvider,
		Settings:                   settings,
		Now:                        time.Now,
	}
}

// refreshBatch is one provider request. Symbols are grouped by the first
// date they are missing so a symbol that failed earlier is caught up.
type refreshBatch struct {
	symbols []string
	r       domain.DateRange
}

type batchResult struct {
	symbols []string
	prices  map[string][]domain.PricePoint
	err     error
}

// Refresh fetches the missing range of every active symbol and the benchmark,
// normalizes it and writes everything that succeeded in one transaction.
// Failed batches are reported, not fatal, unless every batch failed.
func (h refreshServiceHandler) Refresh(ctx context.Context, in RefreshInput) (*domain.RefreshResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.GetProfile(ctx)
	defer endProfile()

	_, endSpan := profile.StartNewSpan("determine refresh range")
	assets, err := h.AssetRepository.ListActive(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assets: %w", err)
	}
	symbols := domain.Symbols(assets)
	if h.Settings.BenchmarkSymbol != "" {
		symbols = append(symbols, h.Settings.BenchmarkSymbol)
	}
	symbols = dedupe(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no active assets to refresh")
	}

	ranges, dateRange, err := h.targetRanges(ctx, in.Mode, symbols)
	if err != nil {
		return nil, err
	}
	endSpan()

	result := &domain.RefreshResult{
		Mode:          in.Mode,
		Range:         dateRange,
		AssetsFailed:  []string{},
		QualityIssues: []domain.DataQualityError{},
	}
	if len(ranges) == 0 {
		log.Infof("prices are current through %s, nothing to refresh", dateRange.End.Format(time.DateOnly))
		return result, nil
	}
	log.Infof("refreshing %d symbols over %s (%s)", len(ranges), dateRange.String(), in.Mode)

	_, endSpan = profile.StartNewSpan("fetch batches")
	batches := batchesByStart(symbols, ranges, h.Provider.MaxBatchSize())
	results := h.fetchBatches(ctx, batches)
	endSpan()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh cancelled, discarding staged rows: %w", err)
	}

	fetched := map[string][]domain.PricePoint{}
	updated := []string{}
	var firstErr error
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			log.Warnf("batch of %d symbols failed: %s", len(r.symbols), r.err.Error())
			result.AssetsFailed = append(result.AssetsFailed, r.symbols...)
			continue
		}
		updated = append(updated, r.symbols...)
		for s, points := range r.prices {
			fetched[s] = points
		}
	}
	sort.Strings(result.AssetsFailed)

	if len(updated) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrRefreshFailed, firstErr)
	}
	result.AssetsUpdated = len(updated)
	result.IsPartial = len(result.AssetsFailed) > 0

	_, endSpan = profile.StartNewSpan("normalize")
	prices, err := h.normalize(ctx, updated, fetched, ranges, in.Thresholds, result)
	if err != nil {
		return nil, err
	}
	endSpan()

	// auxiliary data never waits on the limiter ahead of the price write
	_, endSpan = profile.StartNewSpan("fetch auxiliary data")
	auxCtx := provider.NonBlocking(ctx)
	marketCaps := h.fetchMarketCaps(auxCtx, updated, dateRange.End)
	fxRates := h.fetchFxRates(auxCtx, dateRange.End)
	endSpan()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh cancelled, discarding staged rows: %w", err)
	}

	_, endSpan = profile.StartNewSpan("write")
	if err := h.write(ctx, prices, marketCaps, fxRates); err != nil {
		return nil, err
	}
	endSpan()

	result.RowsWritten = len(prices) + len(marketCaps) + len(fxRates)
	for _, p := range prices {
		if result.EarliestChange == nil || p.Date.Before(*result.EarliestChange) {
			d := p.Date
			result.EarliestChange = &d
		}
	}

	log.Infof("refresh wrote %d rows, %d updated, %d failed", result.RowsWritten, result.AssetsUpdated, len(result.AssetsFailed))

	return result, nil
}

// targetRanges returns the range each symbol is missing, keyed by symbol,
// and the span covering all of them. Symbols with nothing missing are left
// out. A symbol with no stored closes, or any symbol in full mode, starts
// BackfillDays before the end.
func (h refreshServiceHandler) targetRanges(
	ctx context.Context,
	mode domain.RefreshMode,
	symbols []string,
) (map[string]domain.DateRange, domain.DateRange, error) {
	end := h.rangeEnd(ctx)
	backfillStart := end.AddDate(0, 0, -h.Settings.BackfillDays)

	latest := map[string]time.Time{}
	if mode != domain.RefreshModeFull {
		var err error
		latest, err = h.PriceObservationRepository.LatestDates(nil, symbols)
		if err != nil {
			return nil, domain.DateRange{}, err
		}
	}

	ranges := map[string]domain.DateRange{}
	span := domain.DateRange{Start: end.AddDate(0, 0, 1), End: end}
	for _, symbol := range symbols {
		start := backfillStart
		if d, ok := latest[symbol]; ok {
			start = d.AddDate(0, 0, 1)
		}
		r := domain.DateRange{Start: start, End: end}
		if r.IsEmpty() {
			continue
		}
		ranges[symbol] = r
		if start.Before(span.Start) {
			span.Start = start
		}
	}

	return ranges, span, nil
}

// rangeEnd is today, or yesterday while the market is open since today's
// close is not final.
func (h refreshServiceHandler) rangeEnd(ctx context.Context) time.Time {
	now := h.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if h.AlpacaRepository != nil {
		open, err := h.AlpacaRepository.IsMarketOpen()
		if err != nil {
			logger.FromContext(ctx).Warnf("failed to get market clock, assuming closed: %s", err.Error())
		} else if open {
			end = end.AddDate(0, 0, -1)
		}
	}
	return end
}

// batchesByStart groups symbols sharing a start date, oldest first, and
// splits each group into provider sized batches.
func batchesByStart(symbols []string, ranges map[string]domain.DateRange, size int) []refreshBatch {
	groups := map[string][]string{}
	starts := []time.Time{}
	for _, symbol := range symbols {
		r, ok := ranges[symbol]
		if !ok {
			continue
		}
		key := r.Start.Format(time.DateOnly)
		if _, seen := groups[key]; !seen {
			starts = append(starts, r.Start)
		}
		groups[key] = append(groups[key], symbol)
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})

	out := []refreshBatch{}
	for _, start := range starts {
		group := groups[start.Format(time.DateOnly)]
		r := ranges[group[0]]
		for _, batch := range provider.Batch(group, size) {
			out = append(out, refreshBatch{symbols: batch, r: r})
		}
	}
	return out
}

func (h refreshServiceHandler) poolSize(numBatches int) int {
	size := numBatches
	if h.Settings.MaxConcurrency > 0 && h.Settings.MaxConcurrency < size {
		size = h.Settings.MaxConcurrency
	}
	if h.Settings.RequestsPerMinute > 0 && h.Settings.RequestsPerMinute < size {
		size = h.Settings.RequestsPerMinute
	}
	if size < 1 {
		size = 1
	}
	return size
}

// fetchBatches runs every batch through the provider on a bounded pool.
// Workers stop picking up batches once ctx is done.
func (h refreshServiceHandler) fetchBatches(ctx context.Context, batches []refreshBatch) []batchResult {
	log := logger.FromContext(ctx)
	numGoroutines := h.poolSize(len(batches))

	results := make([]batchResult, len(batches))
	inputCh := make(chan int, len(batches))
	for i := range batches {
		inputCh <- i
	}
	close(inputCh)

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					batch := batches[idx]
					prices, err := h.Provider.FetchPrices(ctx, batch.symbols, batch.r)
					results[idx] = batchResult{
						symbols: batch.symbols,
						prices:  prices,
						err:     err,
					}
					if err != nil && errors.Is(err, domain.ErrCircuitOpen) {
						log.Warnf("circuit open for %s, batch skipped", h.Provider.Name())
					}
				}
			}
		}()
	}
	wg.Wait()

	// batches never picked up because of cancellation
	for i := range results {
		if results[i].symbols == nil {
			results[i] = batchResult{symbols: batches[i].symbols, err: ctx.Err()}
		}
	}

	return results
}

func (h refreshServiceHandler) normalize(
	ctx context.Context,
	symbols []string,
	fetched map[string][]domain.PricePoint,
	ranges map[string]domain.DateRange,
	thresholds domain.Thresholds,
	result *domain.RefreshResult,
) ([]model.PriceObservation, error) {
	log := logger.FromContext(ctx)

	// every symbol's history ends the day before its own start
	var firstStart, lastStart time.Time
	for i, symbol := range symbols {
		start := ranges[symbol].Start
		if i == 0 || start.Before(firstStart) {
			firstStart = start
		}
		if start.After(lastStart) {
			lastStart = start
		}
	}

	historyDays := h.Settings.HistoryDays
	// calendar days comfortably covering historyDays trading days
	history, err := h.PriceObservationRepository.List(nil, symbols, firstStart.AddDate(0, 0, -2*historyDays), lastStart.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("failed to load trailing history: %w", err)
	}
	allDays := calculator.TradingCalendar(fetched)

	out := []model.PriceObservation{}
	for _, symbol := range symbols {
		r := ranges[symbol]

		trailing := []domain.PricePoint{}
		for _, p := range history[symbol] {
			if p.Date.Before(r.Start) {
				trailing = append(trailing, p)
			}
		}
		if len(trailing) > historyDays {
			trailing = trailing[len(trailing)-historyDays:]
		}

		calendar := []time.Time{}
		for _, d := range allDays {
			if r.Contains(d) {
				calendar = append(calendar, d)
			}
		}

		normalized := calculator.NormalizeSeries(calculator.NormalizeSeriesInput{
			Symbol:      symbol,
			Raw:         fetched[symbol],
			History:     trailing,
			TradingDays: calendar,
			Thresholds:  thresholds,
		})
		for _, issue := range normalized.Issues {
			log.Warnf("data quality: %s", issue.Error())
		}
		result.QualityIssues = append(result.QualityIssues, normalized.Issues...)

		for _, p := range normalized.Points {
			out = append(out, model.PriceObservation{
				Symbol: symbol,
				Date:   p.Date,
				Close:  decimal.NewFromFloat(p.Close),
				Source: h.Provider.Name(),
			})
		}
	}

	return out, nil
}

// fetchMarketCaps is best effort, a failure only costs the factor scorer
// fresh caps.
func (h refreshServiceHandler) fetchMarketCaps(ctx context.Context, symbols []string, date time.Time) []model.MarketCap {
	log := logger.FromContext(ctx)
	caps, err := h.Provider.FetchMarketCaps(ctx, symbols)
	if err != nil {
		log.Warnf("failed to refresh market caps: %s", err.Error())
		return nil
	}

	out := []model.MarketCap{}
	for _, symbol := range symbols {
		if c, ok := caps[symbol]; ok && c > 0 {
			out = append(out, model.MarketCap{
				Symbol:    symbol,
				Date:      date,
				MarketCap: c,
			})
		}
	}
	return out
}

func (h refreshServiceHandler) fetchFxRates(ctx context.Context, date time.Time) []model.FxRate {
	if len(h.Settings.FxPairs) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)
	rates, err := h.Provider.FetchFx(ctx, h.Settings.FxPairs, date)
	if err != nil {
		log.Warnf("failed to refresh fx rates: %s", err.Error())
		return nil
	}

	out := []model.FxRate{}
	for _, pair := range h.Settings.FxPairs {
		if rate, ok := rates[pair]; ok {
			out = append(out, model.FxRate{
				Pair: pair,
				Date: date,
				Rate: decimal.NewFromFloat(rate),
			})
		}
	}
	return out
}

func (h refreshServiceHandler) write(ctx context.Context, prices []model.PriceObservation, caps []model.MarketCap, rates []model.FxRate) error {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := h.PriceObservationRepository.Upsert(tx, prices); err != nil {
		return err
	}
	if err := h.MarketCapRepository.Upsert(tx, caps); err != nil {
		return err
	}
	if err := h.FxRateRepository.Upsert(tx, rates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit refresh: %w", err)
	}
	return nil
}

func dedupe(symbols []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"factorindex/api"
	integration_tests "factorindex/integration-tests"
	"factorindex/internal/app"
	"factorindex/internal/logger"
	"factorindex/internal/provider"
	"factorindex/internal/repository"
	l1_service "factorindex/internal/service/l1"
	l2_service "factorindex/internal/service/l2"
	l3_service "factorindex/internal/service/l3"
	"factorindex/internal/util"
	"factorindex/pkg/exchangerate"
	interestrate "factorindex/pkg/interest_rate"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const redisPingTimeout = 2 * time.Second

type Dependencies struct {
	Config               *util.Config
	ApiHandler           *api.ApiHandler
	AssetRepository      repository.AssetRepository
	IndexValueRepository repository.IndexValueRepository
	Registry             *prometheus.Registry
	redisClient          *redis.Client
}

func CloseDependencies(deps *Dependencies) {
	log := logger.FromContext(context.Background())
	if deps.redisClient != nil {
		if err := deps.redisClient.Close(); err != nil {
			log.Warnf("failed to close redis: %v", err)
		}
	}
	if err := deps.ApiHandler.Db.Close(); err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

// newCache prefers redis and falls back to an in-process cache when no
// address is configured or redis does not answer.
func newCache(ctx context.Context, secrets util.RedisSecrets) (provider.Cache, *redis.Client) {
	log := logger.FromContext(ctx)
	if secrets.Addr == "" {
		log.Infof("no redis address configured, using in-memory provider cache")
		return provider.NewMemoryCache(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     secrets.Addr,
		Password: secrets.Password,
		DB:       secrets.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnf("redis at %s unavailable, using in-memory provider cache: %v", secrets.Addr, err)
		client.Close()
		return provider.NewMemoryCache(), nil
	}
	return provider.NewRedisCache(client), client
}

func InitializeDependencies(configPath string) (*Dependencies, error) {
	ctx := context.Background()

	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	cfg, err := util.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	providerMetrics := provider.NewMetrics(registry)
	cache, redisClient := newCache(ctx, secrets.Redis)

	assetRepository := repository.NewAssetRepository(dbConn)
	priceObservationRepository := repository.NewPriceObservationRepository(dbConn)
	marketCapRepository := repository.NewMarketCapRepository(dbConn)
	fxRateRepository := repository.NewFxRateRepository(dbConn)
	allocationRepository := repository.NewAllocationRepository(dbConn)
	indexValueRepository := repository.NewIndexValueRepository(dbConn)
	riskMetricRepository := repository.NewRiskMetricRepository(dbConn)
	strategyConfigRepository := repository.NewStrategyConfigRepository(dbConn)
	jobRunRepository := repository.NewJobRunRepository(dbConn)

	alpacaRepository := repository.NewAlpacaRepository(
		secrets.Alpaca.ApiKey,
		secrets.Alpaca.ApiSecret,
		secrets.Alpaca.TradingEndpoint,
		secrets.Alpaca.DataEndpoint,
	)
	if strings.EqualFold(os.Getenv(logger.EnvVar), "test") {
		alpacaRepository = integration_tests.NewMockAlpacaRepositoryForTests()
	}
	yahooRepository := repository.NewYahooRepository()
	fxClient := exchangerate.NewClient(secrets.ExchangeRate.BaseURL, &http.Client{
		Timeout: cfg.Providers.ExchangeRate.RequestTimeout,
	})

	alpacaProvider := provider.New(provider.NewAlpacaSource(alpacaRepository), cfg.Providers.Alpaca, cache, cfg.CacheTTL, providerMetrics)
	yahooProvider := provider.New(provider.NewYahooSource(yahooRepository), cfg.Providers.Yahoo, cache, cfg.CacheTTL, providerMetrics)
	fxProvider := provider.New(provider.NewFxSource(fxClient), cfg.Providers.ExchangeRate, cache, cfg.CacheTTL, providerMetrics)

	marketData := provider.Composite{
		Prices:     alpacaProvider,
		Quotes:     alpacaProvider,
		MarketCaps: yahooProvider,
		Fx:         fxProvider,
	}
	refreshSettings := cfg.Refresh
	refreshSettings.RequestsPerMinute = cfg.Providers.Alpaca.RequestsPerMinute
	if cfg.Providers.PriceSource == "yahoo" {
		marketData.Prices = yahooProvider
		refreshSettings.RequestsPerMinute = cfg.Providers.Yahoo.RequestsPerMinute
	}

	priceService := l1_service.NewPriceService(priceObservationRepository)
	currencyConverter := l1_service.NewCurrencyConverter(fxRateRepository)
	refreshService := l1_service.NewRefreshService(
		dbConn,
		assetRepository,
		priceObservationRepository,
		marketCapRepository,
		fxRateRepository,
		alpacaRepository,
		marketData,
		refreshSettings,
	)

	allocationService := l2_service.NewAllocationService(
		assetRepository,
		marketCapRepository,
		priceService,
	)
	indexService := l2_service.NewIndexService(
		allocationRepository,
		indexValueRepository,
		priceService,
		cfg.Refresh.BenchmarkSymbol,
	)

	strategyService := l3_service.NewStrategyService(
		dbConn,
		strategyConfigRepository,
		allocationRepository,
		priceObservationRepository,
		allocationService,
		indexService,
		cfg.Strategy,
	)
	metricsService := l3_service.NewMetricsService(
		indexValueRepository,
		riskMetricRepository,
		indexService,
		interestrate.NewClient(secrets.YieldCurve.BaseURL, nil),
		cfg.Risk,
	)
	simulationService := l3_service.NewSimulationService(
		indexValueRepository,
		currencyConverter,
		cfg.BaseCurrency,
	)

	pipeline := app.IndexPipeline{
		Db:              dbConn,
		RefreshService:  refreshService,
		StrategyService: strategyService,
		IndexService:    indexService,
		MetricsService:  metricsService,
	}

	apiHandler := &api.ApiHandler{
		Db:       dbConn,
		JobQueue: app.NewJobQueue(jobRunRepository, registry),
		Pipeline: pipeline,
		ReportHandler: app.ReportHandler{
			AllocationRepository: allocationRepository,
			IndexValueRepository: indexValueRepository,
			RiskMetricRepository: riskMetricRepository,
			JobRunRepository:     jobRunRepository,
			StaleAfter:           cfg.StaleAfter,
		},
		StrategyService:   strategyService,
		SimulationService: simulationService,
		IndexService:      indexService,
		BaseCurrency:      cfg.BaseCurrency,
		JwtSecret:         secrets.Jwt,
		Gatherer:          registry,
	}

	return &Dependencies{
		Config:               cfg,
		ApiHandler:           apiHandler,
		AssetRepository:      assetRepository,
		IndexValueRepository: indexValueRepository,
		Registry:             registry,
		redisClient:          redisClient,
	}, nil
}

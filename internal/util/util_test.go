package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"factorindex/internal/domain"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), *cfg)
	})

	t.Run("overrides keep unset defaults", func(t *testing.T) {
		path := writeConfig(t, `
port: 8080
staleAfter: 12h
providers:
  priceSource: yahoo
  yahoo:
    requestsPerMinute: 30
    requestTimeout: 5s
refresh:
  benchmarkSymbol: QQQ
  fxPairs: [EUR/USD, GBP/USD]
risk:
  windows: [30, 0]
strategy:
  lookbackDays: 60
  rebalanceFrequency: monthly
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, 12*time.Hour, cfg.StaleAfter)
		require.Equal(t, "yahoo", cfg.Providers.PriceSource)
		require.Equal(t, 30, cfg.Providers.Yahoo.RequestsPerMinute)
		require.Equal(t, 5*time.Second, cfg.Providers.Yahoo.RequestTimeout)
		require.Equal(t, 10, cfg.Providers.Yahoo.MaxBatchSize)
		require.Equal(t, "QQQ", cfg.Refresh.BenchmarkSymbol)
		require.Equal(t, []string{"EUR/USD", "GBP/USD"}, cfg.Refresh.FxPairs)
		require.Equal(t, 365, cfg.Refresh.BackfillDays)
		require.Equal(t, []int{30, 0}, cfg.Risk.Windows)
		require.Equal(t, 60, cfg.Strategy.LookbackDays)
		require.Equal(t, domain.RebalanceMonthly, cfg.Strategy.RebalanceFrequency)
		require.Equal(t, domain.DefaultStrategyConfig().FactorWeights, cfg.Strategy.FactorWeights)
		require.Equal(t, "USD", cfg.BaseCurrency)
	})

	t.Run("unknown price source", func(t *testing.T) {
		path := writeConfig(t, "providers:\n  priceSource: bloomberg\n")
		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "unknown price source")
	})

	t.Run("invalid strategy", func(t *testing.T) {
		path := writeConfig(t, "strategy:\n  factorWeights:\n    momentum: 0.9\n")
		_, err := LoadConfig(path)
		require.Error(t, err)

		var configErr *domain.ConfigInvalidError
		require.ErrorAs(t, err, &configErr)
	})
}

func TestDbSecrets_ToConnectionStr(t *testing.T) {
	s := DbSecrets{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		Database: "factorindex",
	}
	require.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=factorindex sslmode=disable", s.ToConnectionStr())

	s.EnableSsl = true
	require.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=factorindex", s.ToConnectionStr())
}

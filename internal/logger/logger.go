package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// EnvVar selects dev or test console output; anything else logs JSON
	EnvVar      = "INDEX_ENV"
	LevelEnvVar = "INDEX_LOG_LEVEL"
)

type ctxKey struct{}

// Config is read from the environment once, in init.
type Config struct {
	Env   string
	Level zapcore.Level
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Env:   strings.ToLower(os.Getenv(EnvVar)),
		Level: zapcore.InfoLevel,
	}
	if raw := os.Getenv(LevelEnvVar); raw != "" {
		if err := cfg.Level.UnmarshalText([]byte(raw)); err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", LevelEnvVar, raw, err)
		}
	}
	return cfg, nil
}

func (c Config) isLocal() bool {
	return c.Env == "dev" || c.Env == "test"
}

func New(cfg Config) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.isLocal() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg.InitialFields = map[string]interface{}{
			"env": cfg.Env,
		}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.Level)

	logger, err := zapCfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

// FromContext never returns nil; without an attached logger it hands back
// the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && logger != nil {
			return logger
		}
	}
	return zap.S()
}

func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With attaches fields to the context's logger and returns both.
func With(ctx context.Context, keysAndValues ...interface{}) (context.Context, *zap.SugaredLogger) {
	log := FromContext(ctx).With(keysAndValues...)
	return WithContext(ctx, log), log
}

func init() {
	cfg, cfgErr := ConfigFromEnv()
	logger, err := New(cfg)
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger.Desugar())
	if cfgErr != nil {
		logger.Warnf("%s, using %s", cfgErr.Error(), cfg.Level)
	}
}

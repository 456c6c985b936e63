package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"
	"factorindex/internal/domain"

	"github.com/go-jet/jet/v2/qrm"
)

// arbitrary key shared by every writer of strategy state
const strategyLockKey int64 = 0x5354524154

type StrategyConfigRepository interface {
	// Add stores cfg as a new version and returns it with Version set
	Add(tx *sql.Tx, cfg domain.StrategyConfig) (*domain.StrategyConfig, error)
	GetLatest(tx *sql.Tx) (*domain.StrategyConfig, error)
	List(tx *sql.Tx) ([]domain.StrategyConfig, error)
	// Lock takes a transaction-scoped advisory lock, released on commit or rollback
	Lock(tx *sql.Tx) error
}

type strategyConfigRepositoryHandler struct {
	Db *sql.DB
}

func NewStrategyConfigRepository(db *sql.DB) StrategyConfigRepository {
	return strategyConfigRepositoryHandler{Db: db}
}

func (h strategyConfigRepositoryHandler) Add(tx *sql.Tx, cfg domain.StrategyConfig) (*domain.StrategyConfig, error) {
	latest, err := h.GetLatest(tx)
	if err != nil {
		return nil, err
	}
	cfg.Version = 1
	if latest != nil {
		cfg.Version = latest.Version + 1
	}
	cfg.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strategy config: %w", err)
	}

	query := table.StrategyConfig.
		INSERT(table.StrategyConfig.AllColumns).
		MODEL(model.StrategyConfig{
			Version:   cfg.Version,
			Payload:   string(payload),
			CreatedAt: cfg.CreatedAt,
		})

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return nil, fmt.Errorf("failed to insert strategy config version %d: %w", cfg.Version, err)
	}

	return &cfg, nil
}

func (h strategyConfigRepositoryHandler) GetLatest(tx *sql.Tx) (*domain.StrategyConfig, error) {
	query := table.StrategyConfig.
		SELECT(table.StrategyConfig.AllColumns).
		ORDER_BY(table.StrategyConfig.Version.DESC()).
		LIMIT(1)

	result := model.StrategyConfig{}
	err := query.Query(dbOrTx(h.Db, tx), &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest strategy config: %w", err)
	}

	return strategyConfigFromModel(result)
}

func (h strategyConfigRepositoryHandler) List(tx *sql.Tx) ([]domain.StrategyConfig, error) {
	query := table.StrategyConfig.
		SELECT(table.StrategyConfig.AllColumns).
		ORDER_BY(table.StrategyConfig.Version.ASC())

	result := []model.StrategyConfig{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list strategy configs: %w", err)
	}

	out := []domain.StrategyConfig{}
	for _, r := range result {
		cfg, err := strategyConfigFromModel(r)
		if err != nil {
			return nil, err
		}
		out = append(out, *cfg)
	}
	return out, nil
}

func (h strategyConfigRepositoryHandler) Lock(tx *sql.Tx) error {
	if tx == nil {
		return fmt.Errorf("strategy lock requires a transaction")
	}
	if _, err := tx.Exec("SELECT pg_advisory_xact_lock($1)", strategyLockKey); err != nil {
		return fmt.Errorf("failed to acquire strategy lock: %w", err)
	}
	return nil
}

func strategyConfigFromModel(m model.StrategyConfig) (*domain.StrategyConfig, error) {
	cfg := domain.StrategyConfig{}
	if err := json.Unmarshal([]byte(m.Payload), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strategy config version %d: %w", m.Version, err)
	}
	cfg.Version = m.Version
	cfg.CreatedAt = m.CreatedAt
	return &cfg, nil
}

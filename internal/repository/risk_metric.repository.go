package repository

import (
	"database/sql"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"
	"factorindex/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
)

type RiskMetricRepository interface {
	Upsert(tx *sql.Tx, snapshots []domain.RiskMetricSnapshot) error
	// List returns the newest snapshots first
	List(tx *sql.Tx, windowDays int, limit int) ([]domain.RiskMetricSnapshot, error)
}

type riskMetricRepositoryHandler struct {
	Db *sql.DB
}

func NewRiskMetricRepository(db *sql.DB) RiskMetricRepository {
	return riskMetricRepositoryHandler{Db: db}
}

func (h riskMetricRepositoryHandler) Upsert(tx *sql.Tx, snapshots []domain.RiskMetricSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := []model.RiskMetricSnapshot{}
	for _, s := range snapshots {
		models = append(models, model.RiskMetricSnapshot{
			Date:            s.Date,
			WindowDays:      int32(s.WindowDays),
			NumObservations: int32(s.NumObservations),
			Volatility:      s.Volatility,
			Sharpe:          s.Sharpe,
			Sortino:         s.Sortino,
			MaxDrawdown:     s.MaxDrawdown,
			CurrentDrawdown: s.CurrentDrawdown,
			Var95:           s.VaR95,
			Var99:           s.VaR99,
			Beta:            s.Beta,
			Correlation:     s.Correlation,
			CreatedAt:       now,
			ModifiedAt:      now,
		})
	}

	t := table.RiskMetricSnapshot
	query := t.
		INSERT(t.AllColumns).
		MODELS(models).
		ON_CONFLICT(t.Date, t.WindowDays).
		DO_UPDATE(
			postgres.SET(
				t.NumObservations.SET(t.EXCLUDED.NumObservations),
				t.Volatility.SET(t.EXCLUDED.Volatility),
				t.Sharpe.SET(t.EXCLUDED.Sharpe),
				t.Sortino.SET(t.EXCLUDED.Sortino),
				t.MaxDrawdown.SET(t.EXCLUDED.MaxDrawdown),
				t.CurrentDrawdown.SET(t.EXCLUDED.CurrentDrawdown),
				t.Var95.SET(t.EXCLUDED.Var95),
				t.Var99.SET(t.EXCLUDED.Var99),
				t.Beta.SET(t.EXCLUDED.Beta),
				t.Correlation.SET(t.EXCLUDED.Correlation),
				t.ModifiedAt.SET(t.EXCLUDED.ModifiedAt),
			),
		)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to upsert risk metric snapshots: %w", err)
	}
	return nil
}

func (h riskMetricRepositoryHandler) List(tx *sql.Tx, windowDays int, limit int) ([]domain.RiskMetricSnapshot, error) {
	t := table.RiskMetricSnapshot
	query := t.
		SELECT(t.AllColumns).
		WHERE(t.WindowDays.EQ(postgres.Int(int64(windowDays)))).
		ORDER_BY(t.Date.DESC())
	if limit > 0 {
		query = query.LIMIT(int64(limit))
	}

	result := []model.RiskMetricSnapshot{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list risk metrics: %w", err)
	}

	out := make([]domain.RiskMetricSnapshot, 0, len(result))
	for _, r := range result {
		out = append(out, domain.RiskMetricSnapshot{
			Date:            r.Date.UTC(),
			WindowDays:      int(r.WindowDays),
			NumObservations: int(r.NumObservations),
			Volatility:      r.Volatility,
			Sharpe:          r.Sharpe,
			Sortino:         r.Sortino,
			MaxDrawdown:     r.MaxDrawdown,
			CurrentDrawdown: r.CurrentDrawdown,
			VaR95:           r.Var95,
			VaR99:           r.Var99,
			Beta:            r.Beta,
			Correlation:     r.Correlation,
		})
	}
	return out, nil
}

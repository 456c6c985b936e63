package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type FxRateRepository interface {
	Upsert(tx *sql.Tx, rates []model.FxRate) error
	// GetLatest returns nil when no rate exists on or before asOf
	GetLatest(tx *sql.Tx, pair string, asOf time.Time) (*model.FxRate, error)
}

type fxRateRepositoryHandler struct {
	Db *sql.DB
}

func NewFxRateRepository(db *sql.DB) FxRateRepository {
	return fxRateRepositoryHandler{Db: db}
}

func (h fxRateRepositoryHandler) Upsert(tx *sql.Tx, rates []model.FxRate) error {
	if len(rates) == 0 {
		return nil
	}
	for i := range rates {
		rates[i].CreatedAt = time.Now().UTC()
	}

	query := table.FxRate.
		INSERT(table.FxRate.AllColumns).
		MODELS(rates).
		ON_CONFLICT(table.FxRate.Pair, table.FxRate.Date).
		DO_UPDATE(
			postgres.SET(
				table.FxRate.Rate.SET(table.FxRate.EXCLUDED.Rate),
			),
		)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to upsert fx rates: %w", err)
	}
	return nil
}

func (h fxRateRepositoryHandler) GetLatest(tx *sql.Tx, pair string, asOf time.Time) (*model.FxRate, error) {
	query := table.FxRate.
		SELECT(table.FxRate.AllColumns).
		WHERE(
			postgres.AND(
				table.FxRate.Pair.EQ(postgres.String(pair)),
				table.FxRate.Date.LT_EQ(postgres.DateT(asOf)),
			),
		).
		ORDER_BY(table.FxRate.Date.DESC()).
		LIMIT(1)

	result := model.FxRate{}
	err := query.Query(dbOrTx(h.Db, tx), &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s rate on %s: %w", pair, asOf.Format(time.DateOnly), err)
	}

	return &result, nil
}

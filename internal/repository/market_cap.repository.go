package repository

import (
	"database/sql"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
)

type MarketCapRepository interface {
	Upsert(tx *sql.Tx, caps []model.MarketCap) error
	// GetLatest returns the most recent market cap on or before asOf
	GetLatest(tx *sql.Tx, symbols []string, asOf time.Time) (map[string]float64, error)
}

type marketCapRepositoryHandler struct {
	Db *sql.DB
}

func NewMarketCapRepository(db *sql.DB) MarketCapRepository {
	return marketCapRepositoryHandler{Db: db}
}

func (h marketCapRepositoryHandler) Upsert(tx *sql.Tx, caps []model.MarketCap) error {
	if len(caps) == 0 {
		return nil
	}
	for i := range caps {
		caps[i].CreatedAt = time.Now().UTC()
	}

	query := table.MarketCap.
		INSERT(table.MarketCap.AllColumns).
		MODELS(caps).
		ON_CONFLICT(table.MarketCap.Symbol, table.MarketCap.Date).
		DO_UPDATE(
			postgres.SET(
				table.MarketCap.MarketCap.SET(table.MarketCap.EXCLUDED.MarketCap),
			),
		)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to upsert market caps: %w", err)
	}
	return nil
}

func (h marketCapRepositoryHandler) GetLatest(tx *sql.Tx, symbols []string, asOf time.Time) (map[string]float64, error) {
	out := map[string]float64{}
	if len(symbols) == 0 {
		return out, nil
	}

	symbolExpressions := []postgres.Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, postgres.String(s))
	}

	query := table.MarketCap.
		SELECT(table.MarketCap.AllColumns).
		WHERE(
			postgres.AND(
				table.MarketCap.Symbol.IN(symbolExpressions...),
				table.MarketCap.Date.LT_EQ(postgres.DateT(asOf)),
			),
		).
		ORDER_BY(table.MarketCap.Date.ASC())

	result := []model.MarketCap{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to get market caps: %w", err)
	}

	// ascending, so later dates overwrite earlier ones
	for _, r := range result {
		out[r.Symbol] = r.MarketCap
	}
	return out, nil
}

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

type PriceObservationRepository interface {
	Upsert(tx *sql.Tx, prices []model.PriceObservation) error
	LatestDate(tx *sql.Tx) (*time.Time, error)
	LatestDates(tx *sql.Tx, symbols []string) (map[string]time.Time, error)
	List(tx *sql.Tx, symbols []string, start, end time.Time) (domain.PriceSeries, error)
	ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error)
}

type priceObservationRepositoryHandler struct {
	Db *sql.DB
}

func NewPriceObservationRepository(db *sql.DB) PriceObservationRepository {
	return priceObservationRepositoryHandler{Db: db}
}

// Upsert is keyed on (symbol, date) so re-running a refresh over the same
// range is a no-op for unchanged closes.
func (h priceObservationRepositoryHandler) Upsert(tx *sql.Tx, prices []model.PriceObservation) error {
	if len(prices) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range prices {
		prices[i].CreatedAt = now
		prices[i].ModifiedAt = now
	}

	query := table.PriceObservation.
		INSERT(table.PriceObservation.AllColumns).
		MODELS(prices).
		ON_CONFLICT(
			table.PriceObservation.Symbol, table.PriceObservation.Date,
		).DO_UPDATE(
		postgres.SET(
			table.PriceObservation.Close.SET(table.PriceObservation.EXCLUDED.Close),
			table.PriceObservation.Source.SET(table.PriceObservation.EXCLUDED.Source),
			table.PriceObservation.ModifiedAt.SET(table.PriceObservation.EXCLUDED.ModifiedAt),
		),
	)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to upsert %d price observations: %w", len(prices), err)
	}

	return nil
}

// LatestDate returns nil when no prices have been stored yet.
func (h priceObservationRepositoryHandler) LatestDate(tx *sql.Tx) (*time.Time, error) {
	var latest sql.NullTime
	err := dbOrTx(h.Db, tx).QueryRow("SELECT MAX(date) FROM price_observation").Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}

	d := latest.Time.UTC()
	return &d, nil
}

// LatestDates returns the last stored date per symbol. Symbols with no
// stored closes are absent from the map.
func (h priceObservationRepositoryHandler) LatestDates(tx *sql.Tx, symbols []string) (map[string]time.Time, error) {
	out := map[string]time.Time{}
	if len(symbols) == 0 {
		return out, nil
	}

	symbolExpressions := []postgres.Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, postgres.String(s))
	}

	query := table.PriceObservation.
		SELECT(
			table.PriceObservation.Symbol,
			postgres.MAX(table.PriceObservation.Date),
		).
		WHERE(table.PriceObservation.Symbol.IN(symbolExpressions...)).
		GROUP_BY(table.PriceObservation.Symbol)

	q, args := query.Sql()

	rows, err := dbOrTx(h.Db, tx).Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var symbol string
		var d time.Time
		if err := rows.Scan(&symbol, &d); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out[symbol] = d.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get latest price dates: %w", err)
	}

	return out, nil
}

func (h priceObservationRepositoryHandler) List(tx *sql.Tx, symbols []string, start, end time.Time) (domain.PriceSeries, error) {
	out := domain.PriceSeries{}
	if len(symbols) == 0 {
		return out, nil
	}

	symbolExpressions := []postgres.Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, postgres.String(s))
	}

	query := table.PriceObservation.
		SELECT(table.PriceObservation.AllColumns).
		WHERE(
			postgres.AND(
				table.PriceObservation.Symbol.IN(symbolExpressions...),
				table.PriceObservation.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
			),
		).
		ORDER_BY(table.PriceObservation.Symbol.ASC(), table.PriceObservation.Date.ASC())

	result := []model.PriceObservation{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list prices for %d symbols: %w", len(symbols), err)
	}

	for _, p := range result {
		out[p.Symbol] = append(out[p.Symbol], domain.PricePoint{
			Date:  p.Date.UTC(),
			Close: p.Close.InexactFloat64(),
		})
	}

	return out, nil
}

// ListTradingDays returns every date with at least one stored close.
func (h priceObservationRepositoryHandler) ListTradingDays(tx *sql.Tx, start, end time.Time) ([]time.Time, error) {
	query := table.PriceObservation.
		SELECT(table.PriceObservation.Date).
		WHERE(
			table.PriceObservation.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
		).
		GROUP_BY(table.PriceObservation.Date).
		ORDER_BY(table.PriceObservation.Date.ASC())

	q, args := query.Sql()

	rows, err := dbOrTx(h.Db, tx).Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list trading days: %w", err)
	}

	return out, nil
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"
	"factorindex/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type IndexValueRepository interface {
	// ReplaceFrom deletes every value on or after from, then inserts values
	ReplaceFrom(tx *sql.Tx, from time.Time, values []domain.IndexValue) error
	List(tx *sql.Tx, start, end *time.Time) ([]domain.IndexValue, error)
	GetLatest(tx *sql.Tx) (*domain.IndexValue, error)
}

type indexValueRepositoryHandler struct {
	Db *sql.DB
}

func NewIndexValueRepository(db *sql.DB) IndexValueRepository {
	return indexValueRepositoryHandler{Db: db}
}

func (h indexValueRepositoryHandler) ReplaceFrom(tx *sql.Tx, from time.Time, values []domain.IndexValue) error {
	if tx == nil {
		return fmt.Errorf("replacing index values requires a transaction")
	}

	deleteQuery := table.IndexValue.
		DELETE().
		WHERE(table.IndexValue.Date.GT_EQ(postgres.DateT(from)))
	if _, err := deleteQuery.Exec(tx); err != nil {
		return fmt.Errorf("failed to delete index values from %s: %w", from.Format(time.DateOnly), err)
	}

	if len(values) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := []model.IndexValue{}
	for _, v := range values {
		if v.Date.Before(from) {
			continue
		}
		models = append(models, model.IndexValue{
			Date:       v.Date,
			Value:      v.Value,
			CreatedAt:  now,
			ModifiedAt: now,
		})
	}
	if len(models) == 0 {
		return nil
	}

	insertQuery := table.IndexValue.
		INSERT(table.IndexValue.AllColumns).
		MODELS(models)
	if _, err := insertQuery.Exec(tx); err != nil {
		return fmt.Errorf("failed to insert %d index values: %w", len(models), err)
	}

	return nil
}

func (h indexValueRepositoryHandler) List(tx *sql.Tx, start, end *time.Time) ([]domain.IndexValue, error) {
	conditions := []postgres.BoolExpression{postgres.Bool(true)}
	if start != nil {
		conditions = append(conditions, table.IndexValue.Date.GT_EQ(postgres.DateT(*start)))
	}
	if end != nil {
		conditions = append(conditions, table.IndexValue.Date.LT_EQ(postgres.DateT(*end)))
	}

	query := table.IndexValue.
		SELECT(table.IndexValue.AllColumns).
		WHERE(postgres.AND(conditions...)).
		ORDER_BY(table.IndexValue.Date.ASC())

	result := []model.IndexValue{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list index values: %w", err)
	}

	out := make([]domain.IndexValue, 0, len(result))
	for _, r := range result {
		out = append(out, domain.IndexValue{
			Date:  r.Date.UTC(),
			Value: r.Value,
		})
	}
	return out, nil
}

func (h indexValueRepositoryHandler) GetLatest(tx *sql.Tx) (*domain.IndexValue, error) {
	query := table.IndexValue.
		SELECT(table.IndexValue.AllColumns).
		ORDER_BY(table.IndexValue.Date.DESC()).
		LIMIT(1)

	result := model.IndexValue{}
	err := query.Query(dbOrTx(h.Db, tx), &result)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest index value: %w", err)
	}

	return &domain.IndexValue{Date: result.Date.UTC(), Value: result.Value}, nil
}

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

// Allocation rows are append-only. When more than one config version wrote
// a set for the same date, the highest version is the effective one.
type AllocationRepository interface {
	Add(tx *sql.Tx, set domain.AllocationSet) error
	GetLatest(tx *sql.Tx) (*domain.AllocationSet, error)
	GetOn(tx *sql.Tx, date time.Time) (*domain.AllocationSet, error)
	ListEffective(tx *sql.Tx) ([]domain.AllocationSet, error)
}

type allocationRepositoryHandler struct {
	Db *sql.DB
}

func NewAllocationRepository(db *sql.DB) AllocationRepository {
	return allocationRepositoryHandler{Db: db}
}

func (h allocationRepositoryHandler) Add(tx *sql.Tx, set domain.AllocationSet) error {
	if len(set.Weights) == 0 {
		return fmt.Errorf("refusing to write empty allocation set for %s", set.Date.Format(time.DateOnly))
	}

	now := time.Now().UTC()
	models := []model.Allocation{}
	for _, a := range set.ToAllocations() {
		models = append(models, model.Allocation{
			Date:          a.Date,
			ConfigVersion: a.ConfigVersion,
			Symbol:        a.Symbol,
			Weight:        a.Weight,
			CreatedAt:     now,
		})
	}

	// a forced rebalance under the same config version replaces that version's rows
	deleteQuery := table.Allocation.
		DELETE().
		WHERE(
			postgres.AND(
				table.Allocation.Date.EQ(postgres.DateT(set.Date)),
				table.Allocation.ConfigVersion.EQ(postgres.Int(int64(set.ConfigVersion))),
			),
		)
	if _, err := deleteQuery.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to clear allocations for %s: %w", set.Date.Format(time.DateOnly), err)
	}

	query := table.Allocation.
		INSERT(table.Allocation.AllColumns).
		MODELS(models)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to add allocations for %s: %w", set.Date.Format(time.DateOnly), err)
	}
	return nil
}

func (h allocationRepositoryHandler) GetLatest(tx *sql.Tx) (*domain.AllocationSet, error) {
	var latest sql.NullTime
	err := dbOrTx(h.Db, tx).QueryRow("SELECT MAX(date) FROM allocation").Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest allocation date: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return h.GetOn(tx, latest.Time.UTC())
}

func (h allocationRepositoryHandler) GetOn(tx *sql.Tx, date time.Time) (*domain.AllocationSet, error) {
	query := table.Allocation.
		SELECT(table.Allocation.AllColumns).
		WHERE(table.Allocation.Date.EQ(postgres.DateT(date))).
		ORDER_BY(table.Allocation.ConfigVersion.ASC(), table.Allocation.Symbol.ASC())

	result := []model.Allocation{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to get allocations on %s: %w", date.Format(time.DateOnly), err)
	}

	sets := effectiveSets(result)
	if len(sets) == 0 {
		return nil, nil
	}
	return &sets[0], nil
}

func (h allocationRepositoryHandler) ListEffective(tx *sql.Tx) ([]domain.AllocationSet, error) {
	query := table.Allocation.
		SELECT(table.Allocation.AllColumns).
		ORDER_BY(table.Allocation.Date.ASC(), table.Allocation.ConfigVersion.ASC())

	result := []model.Allocation{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	return effectiveSets(result), nil
}

// effectiveSets keeps only the highest config version per date
func effectiveSets(in []model.Allocation) []domain.AllocationSet {
	maxVersion := map[time.Time]int32{}
	for _, a := range in {
		d := a.Date.UTC()
		if v, ok := maxVersion[d]; !ok || a.ConfigVersion > v {
			maxVersion[d] = a.ConfigVersion
		}
	}

	flat := []domain.Allocation{}
	for _, a := range in {
		d := a.Date.UTC()
		if a.ConfigVersion != maxVersion[d] {
			continue
		}
		flat = append(flat, domain.Allocation{
			Date:          d,
			Symbol:        a.Symbol,
			Weight:        a.Weight,
			ConfigVersion: a.ConfigVersion,
		})
	}

	return domain.GroupAllocations(flat)
}

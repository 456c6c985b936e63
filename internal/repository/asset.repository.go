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

type AssetRepository interface {
	List(tx *sql.Tx) ([]domain.Asset, error)
	ListActive(tx *sql.Tx) ([]domain.Asset, error)
	Upsert(tx *sql.Tx, assets []domain.Asset) error
}

type assetRepositoryHandler struct {
	Db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return assetRepositoryHandler{Db: db}
}

func (h assetRepositoryHandler) List(tx *sql.Tx) ([]domain.Asset, error) {
	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		ORDER_BY(table.Asset.Symbol.ASC())

	result := []model.Asset{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return assetsFromModels(result), nil
}

func (h assetRepositoryHandler) ListActive(tx *sql.Tx) ([]domain.Asset, error) {
	query := table.Asset.
		SELECT(table.Asset.AllColumns).
		WHERE(table.Asset.IsActive.IS_TRUE()).
		ORDER_BY(table.Asset.Symbol.ASC())

	result := []model.Asset{}
	if err := query.Query(dbOrTx(h.Db, tx), &result); err != nil {
		return nil, fmt.Errorf("failed to list active assets: %w", err)
	}

	return assetsFromModels(result), nil
}

// Upsert only touches descriptive fields, the engine itself never calls it.
func (h assetRepositoryHandler) Upsert(tx *sql.Tx, assets []domain.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := []model.Asset{}
	for _, a := range assets {
		var sector *string
		if a.Sector != "" {
			s := a.Sector
			sector = &s
		}
		currency := a.Currency
		if currency == "" {
			currency = "USD"
		}
		models = append(models, model.Asset{
			Symbol:     a.Symbol,
			Name:       a.Name,
			Sector:     sector,
			Currency:   currency,
			IsActive:   a.IsActive,
			CreatedAt:  now,
			ModifiedAt: now,
		})
	}

	query := table.Asset.
		INSERT(table.Asset.AllColumns).
		MODELS(models).
		ON_CONFLICT(table.Asset.Symbol).
		DO_UPDATE(
			postgres.SET(
				table.Asset.Name.SET(table.Asset.EXCLUDED.Name),
				table.Asset.Sector.SET(table.Asset.EXCLUDED.Sector),
				table.Asset.Currency.SET(table.Asset.EXCLUDED.Currency),
				table.Asset.IsActive.SET(table.Asset.EXCLUDED.IsActive),
				table.Asset.ModifiedAt.SET(table.Asset.EXCLUDED.ModifiedAt),
			),
		)

	if _, err := query.Exec(dbOrTx(h.Db, tx)); err != nil {
		return fmt.Errorf("failed to upsert %d assets: %w", len(models), err)
	}

	return nil
}

func assetsFromModels(in []model.Asset) []domain.Asset {
	out := make([]domain.Asset, 0, len(in))
	for _, a := range in {
		sector := ""
		if a.Sector != nil {
			sector = *a.Sector
		}
		out = append(out, domain.Asset{
			Symbol:   a.Symbol,
			Name:     a.Name,
			Sector:   sector,
			Currency: a.Currency,
			IsActive: a.IsActive,
		})
	}
	return out
}

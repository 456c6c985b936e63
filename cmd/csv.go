package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"factorindex/internal/domain"
	"factorindex/internal/repository"

	"github.com/gocarina/gocsv"
)

// ImportAssets upserts the universe rows read from r. Columns are symbol,
// name, sector, currency and is_active; a blank currency means USD.
func ImportAssets(r io.Reader, assetRepository repository.AssetRepository) (int, error) {
	rows := []*domain.Asset{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse assets csv: %w", err)
	}

	assets := []domain.Asset{}
	seen := map[string]bool{}
	for i, row := range rows {
		symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
		if symbol == "" {
			return 0, fmt.Errorf("row %d has no symbol", i+1)
		}
		if seen[symbol] {
			return 0, fmt.Errorf("duplicate symbol %s on row %d", symbol, i+1)
		}
		seen[symbol] = true

		asset := *row
		asset.Symbol = symbol
		asset.Currency = strings.ToUpper(strings.TrimSpace(asset.Currency))
		if asset.Currency == "" {
			asset.Currency = "USD"
		}
		assets = append(assets, asset)
	}
	if len(assets) == 0 {
		return 0, nil
	}

	if err := assetRepository.Upsert(nil, assets); err != nil {
		return 0, fmt.Errorf("failed to upsert assets: %w", err)
	}
	return len(assets), nil
}

type indexValueRow struct {
	Date  string  `csv:"date"`
	Value float64 `csv:"value"`
}

// ExportIndex writes the stored index between start and end, either of which
// may be nil, as date,value rows.
func ExportIndex(w io.Writer, indexValueRepository repository.IndexValueRepository, start, end *time.Time) (int, error) {
	values, err := indexValueRepository.List(nil, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list index values: %w", err)
	}

	rows := []indexValueRow{}
	for _, v := range values {
		rows = append(rows, indexValueRow{
			Date:  v.Date.Format(time.DateOnly),
			Value: v.Value,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("failed to write index csv: %w", err)
	}
	return len(rows), nil
}

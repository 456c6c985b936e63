package domain

import "time"

type RefreshMode string

const (
	RefreshModeMinimal RefreshMode = "minimal"
	RefreshModeFull    RefreshMode = "full"
)

func ParseRefreshMode(s string) (RefreshMode, bool) {
	switch RefreshMode(s) {
	case RefreshModeMinimal, "":
		return RefreshModeMinimal, true
	case RefreshModeFull:
		return RefreshModeFull, true
	}
	return "", false
}

type RefreshResult struct {
	Mode          RefreshMode        `json:"mode"`
	Range         DateRange          `json:"range"`
	AssetsUpdated int                `json:"assetsUpdated"`
	AssetsFailed  []string           `json:"assetsFailed"`
	IsPartial     bool               `json:"isPartial"`
	RowsWritten   int                `json:"rowsWritten"`
	QualityIssues []DataQualityError `json:"qualityIssues,omitempty"`
	// earliest date that received a new close, nil when nothing changed
	EarliestChange *time.Time `json:"earliestChange,omitempty"`
}

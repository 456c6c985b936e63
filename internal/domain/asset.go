package domain

type Asset struct {
	Symbol   string `json:"symbol" csv:"symbol"`
	Name     string `json:"name" csv:"name"`
	Sector   string `json:"sector" csv:"sector"`
	Currency string `json:"currency" csv:"currency"`
	IsActive bool   `json:"isActive" csv:"is_active"`
}

func Symbols(assets []Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.Symbol)
	}
	return out
}

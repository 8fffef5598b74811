package domain

import "context"

// Country is a minimal country record used for profile enrichment.
// swagger:model Country
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

// CountryLookup resolves a country by its ISO code via an external source.
type CountryLookup interface {
	ByCode(ctx context.Context, code string) (*Country, error)
}

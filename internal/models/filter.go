package models

type SortOption string

const (
	SortNameAsc   SortOption = "name_asc"
	SortNameDesc  SortOption = "name_desc"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
)

func ParseSortOption(s string) (SortOption, bool) {
	switch SortOption(s) {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return SortOption(s), true
	}
	return SortNameAsc, false
}

// FilterState is pure view configuration over the product cache. It is never
// persisted and never sent to the server.
type FilterState struct {
	Category string
	Sort     SortOption

	// Inclusive price bounds; nil means unbounded.
	PriceMin *float64
	PriceMax *float64
}

func DefaultFilterState() FilterState {
	return FilterState{Sort: SortNameAsc}
}

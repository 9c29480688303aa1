package catalog

import (
	"cmp"
	"slices"
	"strings"

	"gadgetshelf/internal/domain"
)

type SortMode string

const (
	SortNone          SortMode = ""
	SortBrandAZ       SortMode = "BrandAZ"
	SortBrandZA       SortMode = "BrandZA"
	SortRatingHighLow SortMode = "RatingHighLow"
	SortRatingLowHigh SortMode = "RatingLowHigh"
)

type SortOption struct {
	Mode  SortMode
	Label string
}

func SortModes() []SortOption {
	return []SortOption{
		{SortBrandAZ, "Brand (A-Z)"},
		{SortBrandZA, "Brand (Z-A)"},
		{SortRatingHighLow, "Rating (High-Low)"},
		{SortRatingLowHigh, "Rating (Low-High)"},
	}
}

// Sort returns the products ordered by mode. Unknown modes keep fetch order.
// Ties always keep fetch order.
func Sort(ps []domain.Product, mode string) []domain.Product {
	out := slices.Clone(ps)
	byRating := func(a, b domain.Product) int {
		return cmp.Compare(AverageRating(a), AverageRating(b))
	}
	switch SortMode(mode) {
	case SortBrandAZ:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return strings.Compare(a.Brand, b.Brand) })
	case SortBrandZA:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return strings.Compare(b.Brand, a.Brand) })
	case SortRatingHighLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return byRating(b, a) })
	case SortRatingLowHigh:
		slices.SortStableFunc(out, byRating)
	}
	return out
}

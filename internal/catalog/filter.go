package catalog

import (
	"slices"

	"gadgetshelf/internal/domain"
)

const MaxRating = 5

type Predicate func(domain.Product) bool

// Keep returns a new slice holding the products accepted by pred.
func Keep(ps []domain.Product, pred Predicate) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func all(domain.Product) bool { return true }

// ByProductType is a no-op unless raw names a real product type.
func ByProductType(raw string) Predicate {
	t, ok := domain.ParseProductType(raw)
	if !ok || t == domain.Undefined {
		return all
	}
	return func(p domain.Product) bool { return p.ProductType == t }
}

func ByBrand(brand string) Predicate {
	if brand == "" {
		return all
	}
	return func(p domain.Product) bool { return p.Brand == brand }
}

// ByMinRating excludes unrated products for any threshold of 1 or more.
func ByMinRating(min int) Predicate {
	if min <= 0 {
		return all
	}
	if min > MaxRating {
		min = MaxRating
	}
	return func(p domain.Product) bool {
		return len(p.Ratings) > 0 && AverageRating(p) >= float64(min)
	}
}

type Filters struct {
	ProductType string
	Brand       string
	MinRating   int
}

func (f Filters) Apply(ps []domain.Product) []domain.Product {
	out := Keep(ps, ByProductType(f.ProductType))
	out = Keep(out, ByBrand(f.Brand))
	return Keep(out, ByMinRating(f.MinRating))
}

// AvailableProductTypes lists the types present, in order of first appearance.
func AvailableProductTypes(ps []domain.Product) []domain.ProductType {
	var out []domain.ProductType
	seen := map[domain.ProductType]bool{}
	for _, p := range ps {
		if p.ProductType == domain.Undefined || seen[p.ProductType] {
			continue
		}
		seen[p.ProductType] = true
		out = append(out, p.ProductType)
	}
	return out
}

func AvailableBrands(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Brand)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

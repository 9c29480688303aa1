package catalog

import (
	"net/url"
	"strings"

	"gadgetshelf/internal/domain"
)

const ProductParam = "product"

// BuildShareURL appends the deep-link query to base, dropping one trailing
// slash so the result never contains "//?product=".
func BuildShareURL(base, productID string) string {
	base = strings.TrimSuffix(base, "/")
	return base + "/?" + ProductParam + "=" + url.QueryEscape(productID)
}

// ProductIDFromURL reads the deep-link parameter; "" when absent.
func ProductIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get(ProductParam))
}

func FindProduct(ps []domain.Product, id string) (domain.Product, bool) {
	if id == "" {
		return domain.Product{}, false
	}
	for _, p := range ps {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return domain.Product{}, false
}

package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gadgetshelf/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrDuplicateID    = errors.New("id already exists")
	ErrUnknownBackend = errors.New("unknown store driver")
)

// Store is the catalog persistence collaborator. Product lookups ignore case.
// AddRating and AddComment report a missing product as (false, nil).
type Store interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	AddRating(ctx context.Context, productID string, rating int) (bool, error)
	AddComment(ctx context.Context, productID, text string) (bool, error)
	AddProduct(ctx context.Context, p domain.Product) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	AddCategory(ctx context.Context, c domain.Category) error
	AddSubcategory(ctx context.Context, categoryID string, sub domain.Subcategory) (bool, error)
	Close() error
}

// Open picks a backend by driver name: "json" (default) or "sqlite".
func Open(driver, dataFile, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "json":
		return OpenJSONStore(dataFile)
	case "sqlite":
		return OpenSQLStore(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, driver)
	}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

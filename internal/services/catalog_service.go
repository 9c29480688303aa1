package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gadgetshelf/internal/domain"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/validate"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("already exists")
	ErrUnreachableURL = errors.New("url is not reachable")
	ErrNotFound       = repos.ErrNotFound
)

var validateStruct = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("producttype", func(fl validator.FieldLevel) bool {
		t, ok := domain.ParseProductType(fl.Field().String())
		return ok && t != domain.Undefined
	})
	return v
}()

// Checker tells whether an external product link answers.
type Checker interface {
	Reachable(ctx context.Context, rawURL string) error
}

type ProductInput struct {
	Brand         string `schema:"brand" validate:"required,max=60"`
	ProductType   string `schema:"productType" validate:"required,producttype"`
	Description   string `schema:"description" validate:"max=500"`
	URL           string `schema:"url" validate:"omitempty,url,max=300"`
	Image         string `schema:"image" validate:"max=200"`
	CategoryID    string `schema:"categoryId" validate:"max=64"`
	SubcategoryID string `schema:"subcategoryId" validate:"max=64"`
}

type CategoryInput struct {
	Name string `schema:"name" validate:"required,max=40"`
}

type CatalogService struct {
	Store repos.Store
	Links Checker
}

func NewCatalogService(store repos.Store, links Checker) *CatalogService {
	return &CatalogService{Store: store, Links: links}
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalidInput, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CatalogService) AddCategory(ctx context.Context, in CategoryInput) (domain.Category, error) {
	name, ok := validate.Name(in.Name, 40)
	in.Name = name
	if err := validateStruct.Struct(in); err != nil || !ok {
		return domain.Category{}, invalid(err)
	}
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return domain.Category{}, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return domain.Category{}, fmt.Errorf("category %q: %w", name, ErrDuplicate)
		}
	}
	c := domain.Category{ID: newID(name), Name: name, Subcategories: []domain.Subcategory{}}
	if err := s.Store.AddCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) AddSubcategory(ctx context.Context, categoryID string, in CategoryInput) (domain.Subcategory, error) {
	name, ok := validate.Name(in.Name, 40)
	in.Name = name
	if err := validateStruct.Struct(in); err != nil || !ok {
		return domain.Subcategory{}, invalid(err)
	}
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		return domain.Subcategory{}, err
	}
	for _, c := range cats {
		if !strings.EqualFold(c.ID, categoryID) {
			continue
		}
		for _, sub := range c.Subcategories {
			if strings.EqualFold(sub.Name, name) {
				return domain.Subcategory{}, fmt.Errorf("subcategory %q: %w", name, ErrDuplicate)
			}
		}
	}
	sub := domain.Subcategory{ID: newID(name), Name: name}
	ok, err = s.Store.AddSubcategory(ctx, categoryID, sub)
	if err != nil {
		return domain.Subcategory{}, err
	}
	if !ok {
		return domain.Subcategory{}, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	return sub, nil
}

// AddProduct validates the input, checks the external link when there is one
// and stores the new product with a generated id.
func (s *CatalogService) AddProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Description = strings.TrimSpace(in.Description)
	in.URL = strings.TrimSpace(in.URL)
	if err := validateStruct.Struct(in); err != nil {
		return domain.Product{}, invalid(err)
	}
	if in.URL != "" && s.Links != nil {
		if err := s.Links.Reachable(ctx, in.URL); err != nil {
			return domain.Product{}, fmt.Errorf("%w: %v", ErrUnreachableURL, err)
		}
	}
	t, _ := domain.ParseProductType(in.ProductType)
	p := domain.Product{
		ID:                 newID(in.Brand + " " + t.String()),
		Brand:              in.Brand,
		ProductType:        t,
		ProductDescription: in.Description,
		URL:                in.URL,
		Image:              strings.TrimSpace(in.Image),
		CategoryID:         in.CategoryID,
		SubcategoryID:      in.SubcategoryID,
	}
	p.Normalize()
	if err := s.Store.AddProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// newID builds a readable, deep-link safe id with a short random suffix.
func newID(name string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	if slug := validate.Slug(name); slug != "" {
		return slug + "-" + suffix
	}
	return suffix
}

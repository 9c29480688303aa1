package repos_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gadgetshelf/internal/domain"
	"gadgetshelf/internal/repos"
)

func openJSON(t *testing.T) repos.Store {
	t.Helper()
	s, err := repos.OpenJSONStore(filepath.Join(t.TempDir(), "data", "products.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func openSQL(t *testing.T) repos.Store {
	t.Helper()
	s, err := repos.OpenSQLStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends() map[string]func(*testing.T) repos.Store {
	return map[string]func(*testing.T) repos.Store{"json": openJSON, "sqlite": openSQL}
}

func TestStore_SeededCatalog(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ps, err := s.FetchAllProducts(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(ps) != 6 {
				t.Fatalf("want 6 seeded products, got %d", len(ps))
			}
			if ps[0].ID != "xps-13" || ps[0].ProductType != domain.Laptop {
				t.Fatalf("fetch order or type lost: %+v", ps[0])
			}
			if len(ps[0].Ratings) != 3 {
				t.Fatalf("want ratings [5 4 5], got %v", ps[0].Ratings)
			}
			for _, p := range ps {
				if p.Ratings == nil || p.CommentList == nil {
					t.Fatalf("product %s not normalized", p.ID)
				}
			}
			cats, err := s.ListCategories(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(cats) != 3 || len(cats[0].Subcategories) != 2 {
				t.Fatalf("unexpected categories %+v", cats)
			}
		})
	}
}

func TestStore_AddRatingAndComment(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			ok, err := s.AddRating(ctx, "IPHONE-15", 4)
			if err != nil || !ok {
				t.Fatalf("add rating: ok=%v err=%v", ok, err)
			}
			ok, err = s.AddRating(ctx, "nope", 4)
			if err != nil || ok {
				t.Fatalf("missing product: want (false, nil), got (%v, %v)", ok, err)
			}
			if _, err := s.AddRating(ctx, "iphone-15", 6); !errors.Is(err, repos.ErrInvalidRating) {
				t.Fatalf("want ErrInvalidRating, got %v", err)
			}

			ok, err = s.AddComment(ctx, "iphone-15", "Great screen")
			if err != nil || !ok {
				t.Fatalf("add comment: ok=%v err=%v", ok, err)
			}
			ok, _ = s.AddComment(ctx, "nope", "x")
			if ok {
				t.Fatal("comment on missing product reported ok")
			}

			p, err := s.GetProduct(ctx, "iphone-15")
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Ratings) != 1 || p.Ratings[0] != 4 {
				t.Fatalf("ratings = %v", p.Ratings)
			}
			if len(p.CommentList) != 1 || p.CommentList[0].Comment != "Great screen" || p.CommentList[0].CreatedAt.IsZero() {
				t.Fatalf("comments = %+v", p.CommentList)
			}
			if _, err := s.GetProduct(ctx, "nope"); !errors.Is(err, repos.ErrNotFound) {
				t.Fatalf("want ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_AdminWrites(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			p := domain.Product{ID: "pixel-9", Brand: "Google", ProductType: domain.Smartphone}
			if err := s.AddProduct(ctx, p); err != nil {
				t.Fatal(err)
			}
			if err := s.AddProduct(ctx, p); !errors.Is(err, repos.ErrDuplicateID) {
				t.Fatalf("want ErrDuplicateID, got %v", err)
			}
			ps, _ := s.FetchAllProducts(ctx)
			if ps[len(ps)-1].ID != "pixel-9" {
				t.Fatalf("new product should be last, got %s", ps[len(ps)-1].ID)
			}

			if err := s.AddCategory(ctx, domain.Category{ID: "gaming", Name: "Gaming"}); err != nil {
				t.Fatal(err)
			}
			ok, err := s.AddSubcategory(ctx, "GAMING", domain.Subcategory{ID: "gaming-consoles", Name: "Consoles"})
			if err != nil || !ok {
				t.Fatalf("add subcategory: ok=%v err=%v", ok, err)
			}
			ok, _ = s.AddSubcategory(ctx, "missing", domain.Subcategory{ID: "x", Name: "X"})
			if ok {
				t.Fatal("subcategory under missing category reported ok")
			}
			cats, _ := s.ListCategories(ctx)
			last := cats[len(cats)-1]
			if last.ID != "gaming" || len(last.Subcategories) != 1 {
				t.Fatalf("unexpected last category %+v", last)
			}
		})
	}
}

func TestJSONStore_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	raw := `{"products":[{"id":"a","brand":"Acme","productType":"Blender","productDescription":null,"ratings":null,"commentList":null}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := repos.OpenJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := s.FetchAllProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 1 || ps[0].ProductType != domain.Undefined || ps[0].Ratings == nil {
		t.Fatalf("unexpected product %+v", ps)
	}
	if _, err := s.AddRating(context.Background(), "A", 5); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), `"Undefined"`) || strings.Contains(string(b), `"Blender"`) {
		t.Fatalf("product type should be written by name; file=%s", b)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := repos.Open("mongo", "", ""); !errors.Is(err, repos.ErrUnknownBackend) {
		t.Fatalf("want ErrUnknownBackend, got %v", err)
	}
}

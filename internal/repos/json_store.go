package repos

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"gadgetshelf/internal/domain"
)

type dataFile struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// JSONStore keeps the whole catalog in one JSON file. Every mutation reads
// the file, applies the change and writes it back. The mutex only orders
// writers inside this process.
type JSONStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func OpenJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, now: time.Now}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Printf("[seed] writing demo catalog to %s", path)
		if err := s.write(dataFile{Categories: seedCategories(), Products: seedProducts()}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) read() (dataFile, error) {
	var d dataFile
	b, err := os.ReadFile(s.path)
	if err != nil {
		return d, fmt.Errorf("read data file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return d, nil
	}
	if err := sonic.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("decode data file: %w", err)
	}
	for i := range d.Products {
		d.Products[i].Normalize()
	}
	return d, nil
}

// write replaces the file atomically through a temp file in the same dir.
func (s *JSONStore) write(d dataFile) error {
	b, err := sonic.ConfigStd.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// update runs fn against the current data and saves it when fn reports a change.
func (s *JSONStore) update(fn func(d *dataFile) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.read()
	if err != nil {
		return false, err
	}
	changed, err := fn(&d)
	if err != nil || !changed {
		return changed, err
	}
	return true, s.write(d)
}

func productIndex(ps []domain.Product, id string) int {
	for i, p := range ps {
		if strings.EqualFold(p.ID, id) {
			return i
		}
	}
	return -1
}

func (s *JSONStore) FetchAllProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.read()
	if err != nil {
		return nil, err
	}
	if d.Products == nil {
		return []domain.Product{}, nil
	}
	return d.Products, nil
}

func (s *JSONStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	ps, err := s.FetchAllProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if i := productIndex(ps, id); i >= 0 {
		return ps[i], nil
	}
	return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (s *JSONStore) AddRating(_ context.Context, productID string, rating int) (bool, error) {
	if !validRating(rating) {
		return false, ErrInvalidRating
	}
	return s.update(func(d *dataFile) (bool, error) {
		i := productIndex(d.Products, productID)
		if i < 0 {
			return false, nil
		}
		d.Products[i].Ratings = append(d.Products[i].Ratings, rating)
		return true, nil
	})
}

func (s *JSONStore) AddComment(_ context.Context, productID, text string) (bool, error) {
	return s.update(func(d *dataFile) (bool, error) {
		i := productIndex(d.Products, productID)
		if i < 0 {
			return false, nil
		}
		d.Products[i].CommentList = append(d.Products[i].CommentList, domain.Comment{
			ID:        uuid.NewString(),
			Comment:   text,
			CreatedAt: s.now().UTC(),
		})
		return true, nil
	})
}

func (s *JSONStore) AddProduct(_ context.Context, p domain.Product) error {
	p.Normalize()
	_, err := s.update(func(d *dataFile) (bool, error) {
		if productIndex(d.Products, p.ID) >= 0 {
			return false, fmt.Errorf("product %s: %w", p.ID, ErrDuplicateID)
		}
		d.Products = append(d.Products, p)
		return true, nil
	})
	return err
}

func (s *JSONStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.read()
	if err != nil {
		return nil, err
	}
	if d.Categories == nil {
		return []domain.Category{}, nil
	}
	return d.Categories, nil
}

func (s *JSONStore) AddCategory(_ context.Context, c domain.Category) error {
	if c.Subcategories == nil {
		c.Subcategories = []domain.Subcategory{}
	}
	_, err := s.update(func(d *dataFile) (bool, error) {
		for _, x := range d.Categories {
			if strings.EqualFold(x.ID, c.ID) {
				return false, fmt.Errorf("category %s: %w", c.ID, ErrDuplicateID)
			}
		}
		d.Categories = append(d.Categories, c)
		return true, nil
	})
	return err
}

func (s *JSONStore) AddSubcategory(_ context.Context, categoryID string, sub domain.Subcategory) (bool, error) {
	return s.update(func(d *dataFile) (bool, error) {
		for i := range d.Categories {
			if strings.EqualFold(d.Categories[i].ID, categoryID) {
				d.Categories[i].Subcategories = append(d.Categories[i].Subcategories, sub)
				return true, nil
			}
		}
		return false, nil
	})
}

package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gadgetshelf/internal/domain"
)

// SQLStore is the SQLite backend. It honours the same contract as JSONStore.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func OpenSQLStore(dsn string) (*SQLStore, error) {
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLStore(db), nil
}

func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{db: db, now: time.Now} }

func (s *SQLStore) Close() error { return s.db.Close() }

type productRow struct {
	ID            string `db:"id"`
	Brand         string `db:"brand"`
	ProductType   string `db:"product_type"`
	Description   string `db:"description"`
	URL           string `db:"url"`
	Image         string `db:"image"`
	CategoryID    string `db:"category_id"`
	SubcategoryID string `db:"subcategory_id"`
}

func (r productRow) product() domain.Product {
	t, _ := domain.ParseProductType(r.ProductType)
	p := domain.Product{
		ID: r.ID, Brand: r.Brand, ProductType: t, ProductDescription: r.Description,
		URL: r.URL, Image: r.Image, CategoryID: r.CategoryID, SubcategoryID: r.SubcategoryID,
	}
	p.Normalize()
	return p
}

const productColumns = `
    id, brand, product_type, COALESCE(description,'') AS description,
    COALESCE(url,'') AS url, COALESCE(image,'') AS image,
    COALESCE(category_id,'') AS category_id, COALESCE(subcategory_id,'') AS subcategory_id`

type ratingRow struct {
	ProductID string `db:"product_id"`
	Value     int    `db:"value"`
}

type commentRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}

func (s *SQLStore) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM products ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	out := make([]domain.Product, len(rows))
	pos := make(map[string]int, len(rows))
	for i, r := range rows {
		out[i] = r.product()
		pos[r.ID] = i
	}

	var ratings []ratingRow
	if err := s.db.SelectContext(ctx, &ratings, `SELECT product_id, value FROM ratings ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	for _, r := range ratings {
		if i, ok := pos[r.ProductID]; ok {
			out[i].Ratings = append(out[i].Ratings, r.Value)
		}
	}

	var comments []commentRow
	if err := s.db.SelectContext(ctx, &comments, `SELECT id, product_id, body, created_at FROM comments ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	for _, c := range comments {
		if i, ok := pos[c.ProductID]; ok {
			out[i].CommentList = append(out[i].CommentList, c.comment())
		}
	}
	return out, nil
}

func (c commentRow) comment() domain.Comment {
	ts, _ := time.Parse(time.RFC3339Nano, c.CreatedAt)
	return domain.Comment{ID: c.ID, Comment: c.Body, CreatedAt: ts}
}

func (s *SQLStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var r productRow
	err := s.db.GetContext(ctx, &r, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, err
	}
	p := r.product()
	if err := s.db.SelectContext(ctx, &p.Ratings, `SELECT value FROM ratings WHERE product_id = ? ORDER BY seq`, r.ID); err != nil {
		return domain.Product{}, err
	}
	var comments []commentRow
	if err := s.db.SelectContext(ctx, &comments,
		`SELECT id, product_id, body, created_at FROM comments WHERE product_id = ? ORDER BY seq`, r.ID); err != nil {
		return domain.Product{}, err
	}
	for _, c := range comments {
		p.CommentList = append(p.CommentList, c.comment())
	}
	return p, nil
}

// canonicalID resolves a case-insensitive id to the stored one.
func (s *SQLStore) canonicalID(ctx context.Context, id string) (string, bool, error) {
	var stored string
	err := s.db.GetContext(ctx, &stored, `SELECT id FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return stored, true, nil
}

func (s *SQLStore) AddRating(ctx context.Context, productID string, rating int) (bool, error) {
	if !validRating(rating) {
		return false, ErrInvalidRating
	}
	id, ok, err := s.canonicalID(ctx, productID)
	if err != nil || !ok {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO ratings(product_id, value) VALUES(?, ?)`, id, rating); err != nil {
		return false, fmt.Errorf("insert rating: %w", err)
	}
	return true, nil
}

func (s *SQLStore) AddComment(ctx context.Context, productID, text string) (bool, error) {
	id, ok, err := s.canonicalID(ctx, productID)
	if err != nil || !ok {
		return false, err
	}
	_, err = s.db.ExecContext(ctx, `
	  INSERT INTO comments(id, product_id, body, created_at)
	  VALUES(?, ?, ?, ?)
	`, uuid.NewString(), id, text, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("insert comment: %w", err)
	}
	return true, nil
}

func (s *SQLStore) AddProduct(ctx context.Context, p domain.Product) error {
	_, exists, err := s.canonicalID(ctx, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("product %s: %w", p.ID, ErrDuplicateID)
	}
	return insertProduct(s.db, p)
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.db.SelectContext(ctx, &cats, `SELECT id, name FROM categories ORDER BY position, rowid`); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	var subs []struct {
		CategoryID string `db:"category_id"`
		domain.Subcategory
	}
	if err := s.db.SelectContext(ctx, &subs, `SELECT category_id, id, name FROM subcategories ORDER BY position, rowid`); err != nil {
		return nil, fmt.Errorf("select subcategories: %w", err)
	}
	for i := range cats {
		cats[i].Subcategories = []domain.Subcategory{}
		for _, sub := range subs {
			if sub.CategoryID == cats[i].ID {
				cats[i].Subcategories = append(cats[i].Subcategories, sub.Subcategory)
			}
		}
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return cats, nil
}

func (s *SQLStore) AddCategory(ctx context.Context, c domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
	  INSERT INTO categories(id, name, position)
	  VALUES(?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM categories))
	`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("insert category %s: %w", c.ID, err)
	}
	return nil
}

func (s *SQLStore) AddSubcategory(ctx context.Context, categoryID string, sub domain.Subcategory) (bool, error) {
	var parent string
	err := s.db.GetContext(ctx, &parent, `SELECT id FROM categories WHERE LOWER(id) = LOWER(?)`, categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx, `
	  INSERT INTO subcategories(id, category_id, name, position)
	  VALUES(?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM subcategories WHERE category_id = ?))
	`, sub.ID, parent, sub.Name, parent)
	if err != nil {
		return false, fmt.Errorf("insert subcategory %s: %w", sub.ID, err)
	}
	return true, nil
}

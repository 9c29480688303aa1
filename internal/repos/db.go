package repos

import (
	"log"

	"gadgetshelf/internal/domain"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

CREATE TABLE IF NOT EXISTS subcategories(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);

-- Products (rowid keeps fetch order)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY COLLATE NOCASE,
  brand TEXT NOT NULL,
  product_type TEXT NOT NULL,
  description TEXT,
  url TEXT,
  image TEXT,
  category_id TEXT,
  subcategory_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);

CREATE TABLE IF NOT EXISTS ratings(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  value INTEGER NOT NULL CHECK (value BETWEEN 1 AND 5)
);
CREATE INDEX IF NOT EXISTS idx_ratings_product ON ratings(product_id);

CREATE TABLE IF NOT EXISTS comments(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  body TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_product ON comments(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/ratings")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for ci, c := range seedCategories() {
		if _, err := tx.Exec(`INSERT INTO categories(id,name,position) VALUES(?,?,?)`, c.ID, c.Name, ci); err != nil {
			return err
		}
		for si, sub := range c.Subcategories {
			if _, err := tx.Exec(`INSERT INTO subcategories(id,category_id,name,position) VALUES(?,?,?,?)`,
				sub.ID, c.ID, sub.Name, si); err != nil {
				return err
			}
		}
	}
	for _, p := range seedProducts() {
		if err := insertProduct(tx, p); err != nil {
			return err
		}
		for _, r := range p.Ratings {
			if _, err := tx.Exec(`INSERT INTO ratings(product_id,value) VALUES(?,?)`, p.ID, r); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func insertProduct(ex sqlx.Execer, p domain.Product) error {
	_, err := ex.Exec(`
	  INSERT INTO products(id,brand,product_type,description,url,image,category_id,subcategory_id)
	  VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.Brand, p.ProductType.String(), p.ProductDescription, p.URL, p.Image, p.CategoryID, p.SubcategoryID)
	return err
}

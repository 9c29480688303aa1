package domain

import "time"

type Category struct {
	ID            string        `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

type Subcategory struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Comment struct {
	ID        string    `json:"id,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID                 string      `json:"id"`
	Brand              string      `json:"brand"`
	ProductType        ProductType `json:"productType"`
	ProductDescription string      `json:"productDescription"`
	URL                string      `json:"url"`
	Image              string      `json:"image"`
	Ratings            []int       `json:"ratings"`
	CommentList        []Comment   `json:"commentList"`
	CategoryID         string      `json:"categoryId,omitempty"`
	SubcategoryID      string      `json:"subcategoryId,omitempty"`
}

// Normalize replaces absent collections with empty ones. Stores call it once
// when a product is loaded so later code never checks for nil.
func (p *Product) Normalize() {
	if p.Ratings == nil {
		p.Ratings = []int{}
	}
	if p.CommentList == nil {
		p.CommentList = []Comment{}
	}
}

// HasLink reports whether the product points at an external page.
func (p Product) HasLink() bool { return p.URL != "" }

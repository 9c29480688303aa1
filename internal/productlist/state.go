package productlist

import (
	"time"

	"gadgetshelf/internal/catalog"
	"gadgetshelf/internal/domain"
)

// State is everything a visitor has changed on the page. It is created fresh
// on every page load and is safe to serialize between requests.
type State struct {
	SearchTerm  string             `json:"searchTerm"`
	SearchField domain.SearchField `json:"searchField"`
	TypeFilter  string             `json:"typeFilter"`
	BrandFilter string             `json:"brandFilter"`
	MinRating   int                `json:"minRating"`
	SortMode    string             `json:"sortMode"`
	SelectedID  string             `json:"selectedId"`
	DeepLinkID  string             `json:"deepLinkId"`
	ToastUntil  time.Time          `json:"toastUntil"`
	Initialized bool               `json:"initialized"`
	Notice      string             `json:"notice"`
}

func NewState() State {
	return State{SearchField: domain.FieldBrand}
}

func (s State) Query() catalog.Query {
	return catalog.Query{Term: s.SearchTerm, Field: s.SearchField}
}

func (s State) Filters() catalog.Filters {
	return catalog.Filters{ProductType: s.TypeFilter, Brand: s.BrandFilter, MinRating: s.MinRating}
}

// ModalOpen reports whether a product is selected.
func (s State) ModalOpen() bool { return s.SelectedID != "" }

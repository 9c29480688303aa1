package handlers

import (
	"html/template"
	"strings"
	"time"

	html "github.com/gofiber/template/html/v2"

	"gadgetshelf/internal/catalog"
	"gadgetshelf/internal/domain"
	"gadgetshelf/internal/productlist"
)

var (
	escapedOpen  = template.HTMLEscapeString(catalog.MarkOpen)
	escapedClose = template.HTMLEscapeString(catalog.MarkClose)
)

// marked escapes s and then restores only the highlight tags.
func marked(s string) template.HTML {
	e := template.HTMLEscapeString(s)
	e = strings.ReplaceAll(e, escapedOpen, catalog.MarkOpen)
	e = strings.ReplaceAll(e, escapedClose, catalog.MarkClose)
	return template.HTML(e)
}

// NewViews loads the page templates from dir with the helpers they use.
func NewViews(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("marked", marked)
	engine.AddFunc("starSeq", func() []int { return []int{1, 2, 3, 4, 5} })
	engine.AddFunc("stamp", func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("Jan 2, 2006 15:04")
	})
	return engine
}

type cardView struct {
	ID          string
	Brand       string
	Type        string
	Description string
	Image       string
	Average     float64
	Filled      int
	VoteLabel   string
}

type modalView struct {
	cardView
	URL      string
	HasLink  bool
	Comments []domain.Comment
}

func newCard(q catalog.Query, p domain.Product) cardView {
	return cardView{
		ID:          p.ID,
		Brand:       q.HighlightBrand(p.Brand),
		Type:        q.HighlightType(p.ProductType.String()),
		Description: q.HighlightDescription(p.ProductDescription),
		Image:       p.Image,
		Average:     catalog.AverageRating(p),
		Filled:      catalog.CurrentRatingStars(p),
		VoteLabel:   catalog.VoteLabel(p),
	}
}

// pageData is everything the products template renders for one visit.
func pageData(o *productlist.Orchestrator) map[string]any {
	st := o.State()
	q := st.Query()
	visible := o.Visible()
	cards := make([]cardView, 0, len(visible))
	for _, p := range visible {
		cards = append(cards, newCard(q, p))
	}
	data := map[string]any{
		"Cards":       cards,
		"Count":       len(cards),
		"Total":       len(o.Products()),
		"State":       st,
		"Placeholder": o.Placeholder(),
		"Fields":      domain.SearchFields(),
		"Types":       o.AvailableProductTypes(),
		"Brands":      o.AvailableBrands(),
		"SortModes":   catalog.SortModes(),
		"Toast":       o.ToastVisible(),
		"ToastMs":     o.ToastRemaining().Milliseconds(),
	}
	if p, ok := o.Selected(); ok {
		// the modal shows the plain text, highlighting is for the grid
		data["Modal"] = modalView{
			cardView: newCard(catalog.Query{}, p),
			URL:      p.URL,
			HasLink:  p.HasLink(),
			Comments: p.CommentList,
		}
	}
	if n := o.TakeNotice(); n != "" {
		data["Notice"] = n
	}
	return data
}

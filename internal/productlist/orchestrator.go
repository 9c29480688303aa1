package productlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gadgetshelf/internal/catalog"
	"gadgetshelf/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

const DefaultToastDelay = 3 * time.Second

// Store is the persistence collaborator.
type Store interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
	AddRating(ctx context.Context, productID string, rating int) (bool, error)
	AddComment(ctx context.Context, productID, text string) (bool, error)
}

type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithToastDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.toastDelay = d
		}
	}
}

// Orchestrator drives one visitor's product list.
// It is not safe for concurrent use; callers serialize interactions.
type Orchestrator struct {
	store      Store
	clipboard  Clipboard
	now        func() time.Time
	toastDelay time.Duration

	state    State
	products []domain.Product
}

func New(store Store, clipboard Clipboard, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		clipboard:  clipboard,
		now:        time.Now,
		toastDelay: DefaultToastDelay,
		state:      NewState(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Restore replaces the session state, e.g. after loading it from a registry.
func (o *Orchestrator) Restore(st State) { o.state = st }

func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) Products() []domain.Product { return o.products }

// Init is the first-render hook. The flag is set before anything else so a
// second call, even after a failed fetch, never resolves the deep link again.
func (o *Orchestrator) Init(ctx context.Context, pageURL string) error {
	if o.state.Initialized {
		return nil
	}
	o.state.Initialized = true
	if err := o.Refresh(ctx); err != nil {
		return err
	}
	o.OpenProductFromURL(pageURL)
	return nil
}

func (o *Orchestrator) Refresh(ctx context.Context) error {
	ps, err := o.store.FetchAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	for i := range ps {
		ps[i].Normalize()
	}
	o.products = ps
	if o.state.SelectedID != "" {
		if _, ok := catalog.FindProduct(ps, o.state.SelectedID); !ok {
			o.state.SelectedID = ""
		}
	}
	return nil
}

func (o *Orchestrator) OpenProductFromURL(pageURL string) {
	id := catalog.ProductIDFromURL(pageURL)
	if id == "" {
		return
	}
	if o.SelectProduct(id) {
		o.state.DeepLinkID = o.state.SelectedID
	}
}

// Visible derives the displayed list: search, then filters, then sort.
func (o *Orchestrator) Visible() []domain.Product {
	out := o.state.Query().Apply(o.products)
	out = o.state.Filters().Apply(out)
	return catalog.Sort(out, o.state.SortMode)
}

func (o *Orchestrator) SetSearch(term string, field domain.SearchField) {
	o.state.SearchTerm = term
	o.state.SearchField = field
}

func (o *Orchestrator) SetFilters(productType, brand string, minRating int) {
	if minRating < 0 {
		minRating = 0
	}
	if minRating > catalog.MaxRating {
		minRating = catalog.MaxRating
	}
	o.state.TypeFilter = productType
	o.state.BrandFilter = brand
	o.state.MinRating = minRating
}

func (o *Orchestrator) SetSort(mode string) { o.state.SortMode = mode }

func (o *Orchestrator) ClearSearch() {
	o.state.SearchTerm = ""
	o.state.SearchField = domain.FieldBrand
}

// ClearFilters resets search, filters and sort. The modal stays as it is.
func (o *Orchestrator) ClearFilters() {
	o.ClearSearch()
	o.state.TypeFilter = ""
	o.state.BrandFilter = ""
	o.state.MinRating = 0
	o.state.SortMode = string(catalog.SortNone)
}

func (o *Orchestrator) SelectProduct(id string) bool {
	p, ok := catalog.FindProduct(o.products, id)
	if !ok {
		return false
	}
	o.state.SelectedID = p.ID
	return true
}

func (o *Orchestrator) CloseModal() {
	o.state.SelectedID = ""
	o.state.DeepLinkID = ""
}

func (o *Orchestrator) Selected() (domain.Product, bool) {
	return catalog.FindProduct(o.products, o.state.SelectedID)
}

func (o *Orchestrator) isOpenOn(productID string) bool {
	return o.state.SelectedID != "" && strings.EqualFold(o.state.SelectedID, productID)
}

// SubmitRating records a vote for the open product and refreshes the list.
// Ratings for a product that is not open, or outside 1..5, are ignored.
func (o *Orchestrator) SubmitRating(ctx context.Context, productID string, stars int) error {
	if !o.isOpenOn(productID) || stars < 1 || stars > catalog.MaxRating {
		return nil
	}
	ok, err := o.store.AddRating(ctx, o.state.SelectedID, stars)
	if err := o.settle(ctx, ok, err, "Your rating could not be saved."); err != nil {
		return fmt.Errorf("add rating %s: %w", productID, err)
	}
	return nil
}

// SubmitComment ignores text that is empty after trimming.
func (o *Orchestrator) SubmitComment(ctx context.Context, productID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	ok, err := o.store.AddComment(ctx, productID, text)
	if err := o.settle(ctx, ok, err, "Your comment could not be saved."); err != nil {
		return fmt.Errorf("add comment %s: %w", productID, err)
	}
	return nil
}

type KeyEvent struct {
	Key   string
	Shift bool
}

// HandleCommentKey submits on plain Enter. Shift+Enter inserts a newline.
// submitted reports whether the comment was dispatched to the store.
func (o *Orchestrator) HandleCommentKey(ctx context.Context, productID, text string, ev KeyEvent) (submitted bool, err error) {
	if ev.Key != "Enter" || ev.Shift || strings.TrimSpace(text) == "" {
		return false, nil
	}
	return true, o.SubmitComment(ctx, productID, text)
}

func (o *Orchestrator) settle(ctx context.Context, ok bool, err error, notice string) error {
	if err == nil && !ok {
		err = ErrProductNotFound
	}
	if err != nil {
		o.state.Notice = notice
		return err
	}
	return o.Refresh(ctx)
}

// CopyShareLink copies the open product's link and shows the toast. Each copy
// restarts the toast timer.
func (o *Orchestrator) CopyShareLink(ctx context.Context, base string) (string, error) {
	p, ok := o.Selected()
	if !ok {
		return "", nil
	}
	link := catalog.BuildShareURL(base, p.ID)
	if err := o.clipboard.Copy(ctx, link); err != nil {
		return "", fmt.Errorf("copy share link: %w", err)
	}
	o.state.ToastUntil = o.now().Add(o.toastDelay)
	return link, nil
}

func (o *Orchestrator) ToastVisible() bool {
	return o.now().Before(o.state.ToastUntil)
}

// ToastRemaining is how long the toast stays up, zero once it is hidden.
func (o *Orchestrator) ToastRemaining() time.Duration {
	if d := o.state.ToastUntil.Sub(o.now()); d > 0 {
		return d
	}
	return 0
}

// TakeNotice returns the pending notice once.
func (o *Orchestrator) TakeNotice() string {
	n := o.state.Notice
	o.state.Notice = ""
	return n
}

func (o *Orchestrator) AvailableProductTypes() []domain.ProductType {
	return catalog.AvailableProductTypes(o.products)
}

func (o *Orchestrator) AvailableBrands() []string {
	return catalog.AvailableBrands(o.products)
}

func (o *Orchestrator) Placeholder() string { return o.state.Query().Placeholder() }

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gadgetshelf/internal/catalog"
	"gadgetshelf/internal/domain"
	applog "gadgetshelf/internal/log"
	"gadgetshelf/internal/metrics"
	"gadgetshelf/internal/productlist"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/sessions"
	"gadgetshelf/internal/validate"
)

type ProductListHandler struct {
	Store    repos.Store
	Sessions sessions.Store
	Options  []productlist.Option
}

type visit struct {
	sid  string
	orch *productlist.Orchestrator
	clip *clipboard
}

func (h *ProductListHandler) newVisit(c *fiber.Ctx) *visit {
	clip := &clipboard{}
	return &visit{sid: sessionID(c), orch: productlist.New(h.Store, clip, h.Options...), clip: clip}
}

// resume loads the visitor's state and the current products. ok is false
// when there is no state yet, i.e. the page was never loaded.
func (h *ProductListHandler) resume(c *fiber.Ctx) (v *visit, ok bool, err error) {
	v = h.newVisit(c)
	st, ok, err := h.Sessions.Load(c.UserContext(), v.sid)
	if err != nil || !ok {
		return nil, false, err
	}
	v.orch.Restore(st)
	if err := v.orch.Refresh(c.UserContext()); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (h *ProductListHandler) save(c *fiber.Ctx, v *visit) error {
	return h.Sessions.Save(c.UserContext(), v.sid, v.orch.State())
}

func (h *ProductListHandler) show(c *fiber.Ctx, v *visit) error {
	data := pageData(v.orch)
	if err := h.save(c, v); err != nil {
		applog.Error(c, "session.save.fail", err, nil)
		return failed(c, "Something went wrong. Please try again.")
	}
	return render(c, "products", data)
}

// errResponded tells action that fn already wrote the response.
var errResponded = errors.New("response written")

func responded(err error) error {
	if err != nil {
		return err
	}
	return errResponded
}

// action runs fn against the resumed visit, saves and goes back to /view.
func (h *ProductListHandler) action(fn func(c *fiber.Ctx, v *visit) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok, err := h.resume(c)
		if err != nil {
			applog.Error(c, "session.resume.fail", err, nil)
			return failed(c, "Could not load products. Please retry.")
		}
		if !ok {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		if err := fn(c, v); err != nil {
			if errors.Is(err, errResponded) {
				return nil
			}
			return err
		}
		if err := h.save(c, v); err != nil {
			applog.Error(c, "session.save.fail", err, nil)
			return failed(c, "Something went wrong. Please try again.")
		}
		return c.Redirect("/view", fiber.StatusSeeOther)
	}
}

// GET /
func (h *ProductListHandler) Page(c *fiber.Ctx) error {
	metrics.PageLoads.Inc()
	v := h.newVisit(c)
	pageURL := c.OriginalURL()
	if err := v.orch.Init(c.UserContext(), pageURL); err != nil {
		applog.Error(c, "products.fetch.fail", err, nil)
		v.orch.Restore(withNotice(v.orch.State(), "Products could not be loaded. Please retry."))
		return h.show(c, v)
	}
	if id := catalog.ProductIDFromURL(pageURL); id != "" {
		if _, open := v.orch.Selected(); open {
			metrics.DeepLinks.WithLabelValues("opened").Inc()
			applog.Info(c, "deeplink.open", map[string]any{"product": v.orch.State().SelectedID})
		} else {
			metrics.DeepLinks.WithLabelValues("unknown").Inc()
			applog.Info(c, "deeplink.unknown", map[string]any{"product": id})
		}
	}
	return h.show(c, v)
}

func withNotice(st productlist.State, n string) productlist.State {
	st.Notice = n
	return st
}

// GET /view
func (h *ProductListHandler) View(c *fiber.Ctx) error {
	v, ok, err := h.resume(c)
	if err != nil {
		applog.Error(c, "session.resume.fail", err, nil)
		return failed(c, "Could not load products. Please retry.")
	}
	if !ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.show(c, v)
}

// POST /ui/search
func (h *ProductListHandler) Search() fiber.Handler {
	return h.action(func(c *fiber.Ctx, v *visit) error {
		var f searchForm
		if err := decodeForm(c, &f); err != nil {
			applog.Security(c, "validation.fail", map[string]any{"form": "search"})
			return responded(c.Status(fiber.StatusBadRequest).SendString("invalid search"))
		}
		field := domain.ParseSearchField(f.Field)
		if field == domain.FieldUndefined {
			field = domain.FieldBrand
		}
		v.orch.SetSearch(f.Term, field)
		return nil
	})
}

// POST /ui/search/clear
func (h *ProductListHandler) ClearSearch() fiber.Handler {
	return h.action(func(_ *fiber.Ctx, v *visit) error {
		v.orch.ClearSearch()
		return nil
	})
}

// POST /ui/filters
func (h *ProductListHandler) Filters() fiber.Handler {
	return h.action(func(c *fiber.Ctx, v *visit) error {
		var f filterForm
		if err := decodeForm(c, &f); err != nil {
			applog.Security(c, "validation.fail", map[string]any{"form": "filters"})
			return responded(c.Status(fiber.StatusBadRequest).SendString("invalid filters"))
		}
		v.orch.SetFilters(f.Type, f.Brand, minRating(f.MinRating))
		v.orch.SetSort(f.Sort)
		return nil
	})
}

// POST /ui/filters/clear
func (h *ProductListHandler) ClearFilters() fiber.Handler {
	return h.action(func(_ *fiber.Ctx, v *visit) error {
		v.orch.ClearFilters()
		return nil
	})
}

// POST /ui/select
func (h *ProductListHandler) Select() fiber.Handler {
	return h.action(func(c *fiber.Ctx, v *visit) error {
		var f selectForm
		_ = decodeForm(c, &f)
		id, ok := validate.ID(f.ID)
		if !ok || !v.orch.SelectProduct(id) {
			applog.Security(c, "validation.fail", map[string]any{"field": "product"})
			return responded(notFound(c, "This product is no longer available"))
		}
		return nil
	})
}

// POST /ui/close
func (h *ProductListHandler) Close() fiber.Handler {
	return h.action(func(_ *fiber.Ctx, v *visit) error {
		v.orch.CloseModal()
		return nil
	})
}

// POST /ui/share
// Fetch callers get the link as JSON and copy it client side.
func (h *ProductListHandler) Share(c *fiber.Ctx) error {
	v, ok, err := h.resume(c)
	if err != nil {
		applog.Error(c, "session.resume.fail", err, nil)
		return failed(c, "Could not load products. Please retry.")
	}
	if !ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	link, err := v.orch.CopyShareLink(c.UserContext(), c.BaseURL())
	if err != nil {
		applog.Error(c, "share.fail", err, nil)
	}
	if link != "" {
		metrics.Shares.Inc()
		applog.Info(c, "share.copy", map[string]any{"product": v.orch.State().SelectedID})
	}
	if err := h.save(c, v); err != nil {
		applog.Error(c, "session.save.fail", err, nil)
		return failed(c, "Something went wrong. Please try again.")
	}
	if wantsJSON(c) {
		return c.JSON(fiber.Map{
			"url":     v.clip.text,
			"toast":   v.orch.ToastVisible(),
			"toastMs": v.orch.ToastRemaining().Milliseconds(),
		})
	}
	return c.Redirect("/view", fiber.StatusSeeOther)
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// POST /products/:id/ratings
func (h *ProductListHandler) Rate() fiber.Handler {
	return h.action(func(c *fiber.Ctx, v *visit) error {
		id, ok := validate.ID(c.Params("id"))
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "product"})
			return responded(notFound(c, "This product is no longer available"))
		}
		var f ratingForm
		_ = decodeForm(c, &f)
		stars := validate.Stars(f.Stars)
		if stars == 0 || !strings.EqualFold(v.orch.State().SelectedID, id) {
			metrics.Ratings.WithLabelValues("ignored").Inc()
			applog.Security(c, "validation.fail", map[string]any{"field": "stars", "value": f.Stars})
			return nil
		}
		if err := v.orch.SubmitRating(c.UserContext(), id, stars); err != nil {
			metrics.Ratings.WithLabelValues(failure(err)).Inc()
			applog.Error(c, "rating.fail", err, map[string]any{"product": id})
			return nil
		}
		metrics.Ratings.WithLabelValues("ok").Inc()
		applog.Audit(c, "rating.add", map[string]any{"product": id, "stars": stars})
		return nil
	})
}

// POST /products/:id/comments
func (h *ProductListHandler) Comment() fiber.Handler {
	return h.action(func(c *fiber.Ctx, v *visit) error {
		id, ok := validate.ID(c.Params("id"))
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "product"})
			return responded(notFound(c, "This product is no longer available"))
		}
		var f commentForm
		_ = decodeForm(c, &f)
		text := validate.Comment(f.Comment)
		if text == "" {
			metrics.Comments.WithLabelValues("ignored").Inc()
			return nil
		}
		submitted := true
		var err error
		if f.Key != "" {
			submitted, err = v.orch.HandleCommentKey(c.UserContext(), id, text, productlist.KeyEvent{Key: f.Key, Shift: f.Shift == "true"})
		} else {
			err = v.orch.SubmitComment(c.UserContext(), id, text)
		}
		if !submitted {
			metrics.Comments.WithLabelValues("ignored").Inc()
			return nil
		}
		if err != nil {
			metrics.Comments.WithLabelValues(failure(err)).Inc()
			applog.Error(c, "comment.fail", err, map[string]any{"product": id})
			return nil
		}
		metrics.Comments.WithLabelValues("ok").Inc()
		applog.Audit(c, "comment.add", map[string]any{"product": id, "len": len([]rune(text))})
		return nil
	})
}

func failure(err error) string {
	if errors.Is(err, productlist.ErrProductNotFound) {
		return "not_found"
	}
	return "error"
}

// GET /api/v1/products
func (h *ProductListHandler) API(c *fiber.Ctx) error {
	var q listQuery
	if err := decoder.Decode(&q, queryValues(c)); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"api": "products"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}
	v := h.newVisit(c)
	if err := v.orch.Refresh(c.UserContext()); err != nil {
		applog.Error(c, "api.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	field := domain.ParseSearchField(q.Field)
	if field == domain.FieldUndefined {
		field = domain.FieldBrand
	}
	v.orch.SetSearch(q.Term, field)
	v.orch.SetFilters(q.Type, q.Brand, minRating(q.MinRating))
	v.orch.SetSort(q.Sort)
	visible := v.orch.Visible()
	items := make([]fiber.Map, 0, len(visible))
	for _, p := range visible {
		items = append(items, fiber.Map{
			"product":       p,
			"averageRating": catalog.AverageRating(p),
			"votes":         catalog.VoteCount(p),
			"shareUrl":      catalog.BuildShareURL(c.BaseURL(), p.ID),
		})
	}
	return c.JSON(fiber.Map{"count": len(items), "products": items})
}

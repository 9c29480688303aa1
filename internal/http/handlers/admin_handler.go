package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gadgetshelf/internal/domain"
	applog "gadgetshelf/internal/log"
	"gadgetshelf/internal/services"
	"gadgetshelf/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
}

func (h *AdminHandler) categoriesPage(c *fiber.Ctx, status int, data fiber.Map) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return failed(c, "Could not load categories")
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["Categories"] = cats
	return render(c.Status(status), "admin_categories", data)
}

// GET /admin/categories
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	return h.categoriesPage(c, fiber.StatusOK, nil)
}

// POST /admin/categories
func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	_ = decodeForm(c, &in)
	cat, err := h.Catalog.AddCategory(c.UserContext(), in)
	if err != nil {
		return h.adminFailure(c, "admin.category.add", err, func(status int, msg string) error {
			return h.categoriesPage(c, status, fiber.Map{"Err": msg})
		})
	}
	applog.Audit(c, "admin.category.add", map[string]any{"category": cat.ID})
	return c.Redirect("/admin/categories", fiber.StatusSeeOther)
}

// POST /admin/categories/:id/subcategories
func (h *AdminHandler) AddSubcategory(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return notFound(c, "Category not found")
	}
	var in services.CategoryInput
	_ = decodeForm(c, &in)
	sub, err := h.Catalog.AddSubcategory(c.UserContext(), catID, in)
	if err != nil {
		return h.adminFailure(c, "admin.subcategory.add", err, func(status int, msg string) error {
			return h.categoriesPage(c, status, fiber.Map{"Err": msg})
		})
	}
	applog.Audit(c, "admin.subcategory.add", map[string]any{"category": catID, "subcategory": sub.ID})
	return c.Redirect("/admin/categories", fiber.StatusSeeOther)
}

func (h *AdminHandler) productForm(c *fiber.Ctx, status int, data fiber.Map) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return failed(c, "Could not load categories")
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["Categories"] = cats
	data["Types"] = domain.ProductTypes()
	return render(c.Status(status), "admin_product_new", data)
}

// GET /admin/products/new
func (h *AdminHandler) NewProduct(c *fiber.Ctx) error {
	return h.productForm(c, fiber.StatusOK, fiber.Map{"In": services.ProductInput{}})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	_ = decodeForm(c, &in)
	p, err := h.Catalog.AddProduct(c.UserContext(), in)
	if err != nil {
		return h.adminFailure(c, "admin.product.add", err, func(status int, msg string) error {
			return h.productForm(c, status, fiber.Map{"In": in, "Err": msg})
		})
	}
	applog.Audit(c, "admin.product.add", map[string]any{"product": p.ID, "type": p.ProductType.String()})
	return c.Redirect("/?product="+p.ID, fiber.StatusSeeOther)
}

// adminFailure maps service errors to a status and a message safe to show.
func (h *AdminHandler) adminFailure(c *fiber.Ctx, action string, err error, show func(int, string) error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": err.Error()})
		return show(fiber.StatusBadRequest, "Please check the form and try again.")
	case errors.Is(err, services.ErrDuplicate):
		applog.Info(c, action+".duplicate", nil)
		return show(fiber.StatusConflict, "That name already exists.")
	case errors.Is(err, services.ErrUnreachableURL):
		applog.Info(c, action+".unreachable", map[string]any{"reason": err.Error()})
		return show(fiber.StatusBadRequest, "The product link could not be reached.")
	case errors.Is(err, services.ErrNotFound):
		return notFound(c, "Category not found")
	default:
		applog.Error(c, action+".fail", err, nil)
		return show(fiber.StatusInternalServerError, "Could not save. Please try again.")
	}
}

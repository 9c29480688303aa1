package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gadgetshelf/internal/catalog"
	"gadgetshelf/internal/log"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/validate"
)

type ProductHandler struct {
	Store repos.Store
}

// GET /product/:id sends old style product links to the deep link form.
func (h *ProductHandler) Permalink(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This product is no longer available")
	}
	p, err := h.Store.GetProduct(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, "This product is no longer available")
	}
	if err != nil {
		return err
	}
	return c.Redirect(catalog.BuildShareURL("", p.ID), fiber.StatusMovedPermanently)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	p, err := h.Store.GetProduct(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if err != nil {
		log.Error(c, "api.product.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load product"})
	}
	return c.JSON(fiber.Map{
		"product":       p,
		"averageRating": catalog.AverageRating(p),
		"votes":         catalog.VoteCount(p),
		"voteLabel":     catalog.VoteLabel(p),
		"shareUrl":      catalog.BuildShareURL(c.BaseURL(), p.ID),
	})
}

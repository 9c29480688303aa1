package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gadgetshelf/internal/config"
	applog "gadgetshelf/internal/log"
)

// ErrorHandler logs the failure and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// NewApp builds the fiber app with the middleware stack and every route.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(cfg.TemplatesDir),
		ErrorHandler: ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(applog.Timer())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(SessionID(cfg.SessionTTL))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/") || p == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			if wantsJSON(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed"})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)
	app.Get("/media/*", media(cfg.MediaDir))

	// ---------- Product list ----------
	pl := d.ProductList
	writeLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|write"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.write.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many submissions. Please wait a moment."})
		},
	})

	app.Get("/", pl.Page)
	app.Get("/view", pl.View)
	ui := app.Group("/ui")
	ui.Post("/search", pl.Search())
	ui.Post("/search/clear", pl.ClearSearch())
	ui.Post("/filters", pl.Filters())
	ui.Post("/filters/clear", pl.ClearFilters())
	ui.Post("/select", pl.Select())
	ui.Post("/close", pl.Close())
	ui.Post("/share", pl.Share)
	app.Post("/products/:id/ratings", writeLimiter, pl.Rate())
	app.Post("/products/:id/comments", writeLimiter, pl.Comment())
	app.Get("/product/:id", d.Product.Permalink)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", pl.API)
	api.Get("/products/:id", d.Product.Get)

	// ---------- Admin ----------
	admin := app.Group("/admin")
	admin.Get("/categories", d.Admin.Categories)
	admin.Post("/categories", d.Admin.AddCategory)
	admin.Post("/categories/:id/subcategories", d.Admin.AddSubcategory)
	admin.Get("/products/new", d.Admin.NewProduct)
	admin.Post("/products", d.Admin.CreateProduct)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page not found")
	})
	return app
}

// media serves product images from dir and refuses anything that could
// escape it.
func media(dir string) fiber.Handler {
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}

package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"gadgetshelf/internal/http/handlers"
)

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates"),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())

	// Route that triggers an internal error
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	var resp *httpResponse
	entries := captureLogs(t, func() {
		r, err := app.Test(httptest.NewRequest("GET", "/err", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		body, _ := io.ReadAll(r.Body)
		resp = &httpResponse{status: r.StatusCode, body: string(body)}
	})
	if resp.status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.status)
	}
	if !strings.Contains(resp.body, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", resp.body)
	}
	if strings.Contains(resp.body, "db timeout") || strings.Contains(resp.body, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", resp.body)
	}
	if !hasAction(entries, "server.error") {
		t.Fatalf("expected server.error log, got %+v", entries)
	}
}

type httpResponse struct {
	status int
	body   string
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)
	resp, body := b.get("/nope")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Page not found") {
		t.Fatalf("missing message; body=%s", body)
	}
}

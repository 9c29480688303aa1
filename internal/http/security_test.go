package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestCSRFRequiredOnActions(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)
	b.get("/")

	entries := captureLogs(t, func() {
		resp := b.post("/ui/search", url.Values{"csrf": {"forged"}, "q": {"dell"}})
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "Security check failed") {
			t.Fatalf("missing message; body=%s", body)
		}
	})
	if !hasAction(entries, "csrf.fail") {
		t.Fatalf("expected csrf.fail log")
	}
}

// oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)
	b.get("/")

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/products/xps-13/comments", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: b.cookies["csrf_"]})
	resp, err := app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}

func TestWriteRateLimit(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)
	b.get("/")

	for i := 0; i < 21; i++ {
		resp := b.post("/products/xps-13/comments", url.Values{"comment": {" "}})
		if i < 20 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 20 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

func TestMediaTraversalBlocked(t *testing.T) {
	app, _ := newTestApp(t)
	b := newBrowser(t, app)

	entries := captureLogs(t, func() {
		resp, _ := b.get("/media/..%2f..%2fgo.mod")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
	if !hasAction(entries, "media.traversal.block") {
		t.Fatalf("expected media.traversal.block log")
	}
}

func TestSessionCookieIsHTTPOnly(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			if !c.HttpOnly {
				t.Fatalf("sid cookie must be HttpOnly")
			}
			return
		}
	}
	t.Fatalf("sid cookie missing")
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"gadgetshelf/internal/config"
	"gadgetshelf/internal/http/handlers"
	"gadgetshelf/internal/repos"
	"gadgetshelf/internal/sessions"
)

func testConfig() config.Config {
	return config.Config{
		TemplatesDir:     "../../web/templates",
		StaticDir:        "../../web/static",
		MediaDir:         "../../web/media",
		SessionTTL:       time.Hour,
		ToastDelay:       3 * time.Second,
		LinkCheckTimeout: time.Second,
	}
}

func newTestApp(t *testing.T) (*fiber.App, repos.Store) {
	t.Helper()
	store, err := repos.OpenSQLStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	cfg := testConfig()
	app := handlers.NewApp(cfg, handlers.NewDeps(store, sessions.NewMemory(cfg.SessionTTL), cfg))
	return app, store
}

// browser keeps the cookies a real one would and fills in the csrf field.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for k, v := range b.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		b.cookies[c.Name] = c.Value
	}
	return resp
}

func (b *browser) get(target string) (*http.Response, string) {
	b.t.Helper()
	resp := b.do(httptest.NewRequest("GET", target, nil))
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (b *browser) post(target string, form url.Values) *http.Response {
	b.t.Helper()
	return b.postWith(target, form, nil)
}

func (b *browser) postWith(target string, form url.Values, header http.Header) *http.Response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf") == "" {
		form.Set("csrf", b.cookies["csrf_"])
	}
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return b.do(req)
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

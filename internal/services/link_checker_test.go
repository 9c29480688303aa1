package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gadgetshelf/internal/services"
)

func TestLinkChecker_Statuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("want HEAD, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/nohead":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	lc := services.NewLinkChecker(2 * time.Second)
	ctx := context.Background()
	assert.NoError(t, lc.Reachable(ctx, srv.URL+"/ok"))
	assert.NoError(t, lc.Reachable(ctx, srv.URL+"/nohead"))
	assert.Error(t, lc.Reachable(ctx, srv.URL+"/missing"))
	assert.Error(t, lc.Reachable(ctx, "ftp://example.com/file"))
	assert.Error(t, lc.Reachable(ctx, "/relative"))
}

func TestLinkChecker_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	lc := services.NewLinkCheckerWithClient(srv.Client())
	for i := 0; i < 8; i++ {
		assert.Error(t, lc.Reachable(context.Background(), srv.URL))
	}
	// five consecutive failures trip the breaker; later calls fail fast
	assert.Equal(t, int32(5), hits.Load())
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"gadgetshelf/internal/metrics"
)

var errServer = errors.New("server error")

// LinkChecker sends a HEAD request to product links. Transport errors and 5xx
// answers count against a circuit breaker so a dead host is not hammered
// while an admin retries.
type LinkChecker struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int]
}

func NewLinkChecker(timeout time.Duration) *LinkChecker {
	return NewLinkCheckerWithClient(&http.Client{Timeout: timeout})
}

func NewLinkCheckerWithClient(client *http.Client) *LinkChecker {
	settings := gobreaker.Settings{
		Name:        "link-check",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &LinkChecker{client: client, breaker: gobreaker.NewCircuitBreaker[int](settings)}
}

func (l *LinkChecker) Reachable(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		metrics.LinkChecks.WithLabelValues("invalid").Inc()
		return fmt.Errorf("not an http(s) url: %q", rawURL)
	}
	status, err := l.breaker.Execute(func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), http.NoBody)
		if err != nil {
			return 0, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return 0, err
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= 500 {
			return resp.StatusCode, fmt.Errorf("%w: %d", errServer, resp.StatusCode)
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		metrics.LinkChecks.WithLabelValues("error").Inc()
		return err
	}
	// Some hosts refuse HEAD but are otherwise up.
	if status >= 400 && status != http.StatusMethodNotAllowed {
		metrics.LinkChecks.WithLabelValues("unreachable").Inc()
		return fmt.Errorf("status %d", status)
	}
	metrics.LinkChecks.WithLabelValues("ok").Inc()
	return nil
}

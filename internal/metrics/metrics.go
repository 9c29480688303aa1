package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gadgetshelf_page_loads_total",
		Help: "Product list page loads",
	})
	DeepLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gadgetshelf_deep_links_total",
		Help: "Page loads carrying a product deep link, by outcome",
	}, []string{"result"})
	Ratings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gadgetshelf_ratings_total",
		Help: "Rating submissions, by outcome",
	}, []string{"result"})
	Comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gadgetshelf_comments_total",
		Help: "Comment submissions, by outcome",
	}, []string{"result"})
	Shares = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gadgetshelf_share_links_total",
		Help: "Share links copied",
	})
	LinkChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gadgetshelf_link_checks_total",
		Help: "Outbound product URL checks, by outcome",
	}, []string{"result"})
)

// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zbwcloud_http_requests_total",
		Help: "HTTP requests processed, partitioned by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zbwcloud_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	TemplateApplies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zbwcloud_template_applies_total",
		Help: "Template applications executed.",
	})

	TemplateItemsLinked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zbwcloud_template_items_linked_total",
		Help: "Item associations written by template applications.",
	})

	TemplateConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zbwcloud_template_conflicts_total",
		Help: "Items excluded from a template application due to validity window conflicts.",
	})

	SearchQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zbwcloud_search_queries_total",
		Help: "Search queries executed.",
	})
)

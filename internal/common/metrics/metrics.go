package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_requests_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool"},
	)

	ToolFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_failures_total",
			Help: "Total number of tool invocations that returned an error shape",
		},
		[]string{"tool", "error_code"},
	)

	ToolDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tool_duration_seconds",
			Help: "Duration of tool execution in seconds",
		},
		[]string{"tool"},
	)

	SearchResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_results_returned",
			Help:    "Number of results returned per successful search",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"tool", "provider"},
	)
)

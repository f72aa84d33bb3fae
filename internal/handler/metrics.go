package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lore_analyze_http_requests_total",
			Help: "Analyze endpoint responses by status code.",
		},
		[]string{"status"},
	)

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lore_analyze_rate_limited_total",
		Help: "Analyze requests rejected by the per-user rate limit.",
	})
)

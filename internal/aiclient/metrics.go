package aiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lore_ai_requests_total",
			Help: "Total number of completion requests sent to the AI backend.",
		},
		[]string{"backend", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lore_ai_request_duration_seconds",
			Help:    "Histogram of AI backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "model"},
	)
	aiTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lore_ai_tokens",
			Help:    "Token counts reported by the AI backend.",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10), // 64 .. 32768
		},
		[]string{"backend", "model", "kind"},
	)
)

func observeUsage(backend, model string, u Usage) {
	if u.PromptTokens != nil {
		aiTokens.WithLabelValues(backend, model, "prompt").Observe(float64(*u.PromptTokens))
	}
	if u.CompletionTokens != nil {
		aiTokens.WithLabelValues(backend, model, "completion").Observe(float64(*u.CompletionTokens))
	}
	if u.TotalTokens != nil {
		aiTokens.WithLabelValues(backend, model, "total").Observe(float64(*u.TotalTokens))
	}
}

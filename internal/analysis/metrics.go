package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lore_analysis_requests_total",
			Help: "Analysis pipeline invocations by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	analysisTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lore_analysis_tokens_total",
			Help: "Tokens charged to the daily budget.",
		},
	)
)

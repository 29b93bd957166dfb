package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// checksTotal counts checks by task and outcome (ok, call_error, format_error).
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammar_checks_total",
		Help: "Total checks by task and result",
	}, []string{"task", "result"})

	// llmDuration tracks the latency of the single upstream completion call.
	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grammar_llm_call_duration_seconds",
		Help:    "LLM completion latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
	}, []string{"task"})

	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammar_offset_resolutions_total",
		Help: "Offset resolutions by suggestion kind and result (hit, miss)",
	}, []string{"kind", "result"})
)

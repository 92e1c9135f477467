package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the repair pipeline and stream rewriter. The
// embedding process decides how to expose them; promhttp.Handler on a
// mux is the usual route.
var (
	RepairsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openclaw_tool_repairs_total",
		Help: "Tool calls whose arguments were changed by repair",
	}, []string{"tool"})

	RulesFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openclaw_repair_rules_fired_total",
		Help: "Per-tool repair rule applications",
	}, []string{"tool", "rule"})

	UnrepairablePayloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openclaw_unrepairable_payloads_total",
		Help: "Tool call payloads that could not be treated as argument records",
	}, []string{"tool"})

	InvalidFragments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openclaw_invalid_fragments_total",
		Help: "Tool calls whose accumulated raw argument text was not valid JSON",
	}, []string{"tool"})

	LeakedControlTokens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openclaw_leaked_control_tokens_total",
		Help: "Provider control tokens observed in user-visible text deltas",
	})

	StreamsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openclaw_streams_ended_total",
		Help: "Rewritten streams by terminal status",
	}, []string{"status"})
)

package logger

import (
	"context"
	"encoding/json"

	"github.com/gidixi/openclaw/internal"
)

// defaultSnapshotMaxLen bounds serialized argument snapshots in log
// entries so a huge payload cannot bloat the log.
const defaultSnapshotMaxLen = 2048

// RepairObserver feeds pipeline and rewriter diagnostics into the
// observability logger and Prometheus metrics. It satisfies both the
// repair and stream observer interfaces.
type RepairObserver struct {
	log            *ObservabilityLogger
	snapshotMaxLen int
}

func NewRepairObserver(log *ObservabilityLogger) *RepairObserver {
	return &RepairObserver{log: log, snapshotMaxLen: defaultSnapshotMaxLen}
}

// SetSnapshotMaxLen overrides the snapshot truncation limit.
func (r *RepairObserver) SetSnapshotMaxLen(n int) {
	if n > 0 {
		r.snapshotMaxLen = n
	}
}

func (r *RepairObserver) RuleFired(ctx context.Context, toolName, ruleName string) {
	RulesFired.WithLabelValues(toolName, ruleName).Inc()
	r.log.Debug(ComponentRepairPipeline, CategoryTransformation, internal.GetStreamID(ctx),
		"Repair rule fired", map[string]interface{}{
			"tool_name": toolName,
			"rule":      ruleName,
		})
}

func (r *RepairObserver) RepairApplied(ctx context.Context, toolName string, before, after map[string]interface{}) {
	RepairsApplied.WithLabelValues(toolName).Inc()
	r.log.ToolRepair(internal.GetStreamID(ctx), toolName, "Tool arguments repaired", map[string]interface{}{
		"before": r.snapshot(before),
		"after":  r.snapshot(after),
	})
}

func (r *RepairObserver) Unrepairable(ctx context.Context, toolName string, payload interface{}) {
	UnrepairablePayloads.WithLabelValues(toolName).Inc()
	r.log.Warn(ComponentRepairPipeline, CategoryValidation, internal.GetStreamID(ctx),
		"Unrepairable tool payload passed through", map[string]interface{}{
			"tool_name": toolName,
			"payload":   r.snapshot(payload),
		})
}

func (r *RepairObserver) FragmentInvalid(ctx context.Context, callID, toolName string) {
	InvalidFragments.WithLabelValues(toolName).Inc()
	r.log.Warn(ComponentStreamRewriter, CategoryValidation, internal.GetStreamID(ctx),
		"Accumulated argument fragments are not valid JSON", map[string]interface{}{
			"call_id":   callID,
			"tool_name": toolName,
		})
}

func (r *RepairObserver) LeakedTokens(ctx context.Context, count int) {
	LeakedControlTokens.Add(float64(count))
	r.log.Warn(ComponentStreamRewriter, CategoryWarning, internal.GetStreamID(ctx),
		"Provider control tokens leaked into text output", map[string]interface{}{
			"count": count,
		})
}

func (r *RepairObserver) StreamEnded(ctx context.Context, events int, err error) {
	status := "completed"
	fields := map[string]interface{}{"events": events}
	if err != nil {
		status = "error"
		if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
			status = "cancelled"
		}
		fields["error"] = err.Error()
	}
	StreamsEnded.WithLabelValues(status).Inc()
	r.log.StreamEvent(internal.GetStreamID(ctx), "Stream ended", fields)
}

// snapshot serializes a payload for logging, truncated to the
// configured limit.
func (r *RepairObserver) snapshot(payload interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return "<unserializable>"
	}
	s := string(data)
	if len(s) > r.snapshotMaxLen {
		s = s[:r.snapshotMaxLen] + "..."
	}
	return s
}

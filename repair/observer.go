package repair

import "context"

// Observer receives diagnostics from the pipeline. Implementations must
// not mutate the records they are handed; repair behavior is identical
// whatever the observer does.
type Observer interface {
	// RuleFired reports a per-tool rule that changed the record.
	RuleFired(ctx context.Context, toolName, ruleName string)

	// RepairApplied reports a record that left the pipeline different
	// from how it entered. before and after are snapshots.
	RepairApplied(ctx context.Context, toolName string, before, after map[string]interface{})

	// Unrepairable reports a payload the pipeline could not treat as an
	// argument record. The payload is passed through unchanged.
	Unrepairable(ctx context.Context, toolName string, payload interface{})
}

// NopObserver discards all diagnostics. It is the default.
type NopObserver struct{}

func (NopObserver) RuleFired(context.Context, string, string)                                 {}
func (NopObserver) RepairApplied(context.Context, string, map[string]interface{}, map[string]interface{}) {
}
func (NopObserver) Unrepairable(context.Context, string, interface{}) {}

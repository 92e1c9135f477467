package repair

import (
	"context"

	"github.com/gidixi/openclaw/types"
)

// Pipeline composes envelope unwrapping, per-tool rules, alias
// substitution, and universal fixes into a single repair pass over a
// tool call's argument record. Repair is idempotent: feeding its output
// back in produces no further change.
type Pipeline struct {
	registry     types.SchemaRegistry
	normalizer   *Normalizer
	rules        map[string][]Rule
	observer     Observer
	extraAliases map[string]map[string]string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver installs a diagnostics observer.
func WithObserver(obs Observer) Option {
	return func(p *Pipeline) {
		if obs != nil {
			p.observer = obs
		}
	}
}

// WithExtraAliases adds per-tool alias pairs on top of the builtin
// table, keyed by tool name then alias.
func WithExtraAliases(pairs map[string]map[string]string) Option {
	return func(p *Pipeline) {
		p.extraAliases = pairs
	}
}

// WithToolRules replaces the rule list for one tool.
func WithToolRules(toolName string, rules []Rule) Option {
	return func(p *Pipeline) {
		p.rules[toolName] = rules
	}
}

// NewPipeline builds a Pipeline over the given registry with the
// builtin per-tool rules.
func NewPipeline(registry types.SchemaRegistry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		rules:    defaultRules(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.normalizer = NewNormalizer(registry, p.extraAliases)
	return p
}

// Repair runs the full repair sequence on the record. The input is
// never mutated; when nothing applies the input is returned as-is and
// the flag is false. Tools without a registered schema pass through
// untouched.
func (p *Pipeline) Repair(ctx context.Context, toolName string, record map[string]interface{}) (map[string]interface{}, bool) {
	if record == nil {
		p.observer.Unrepairable(ctx, toolName, record)
		return record, false
	}
	out, changed := p.repairDepth(ctx, toolName, record, 0)
	if changed {
		p.observer.RepairApplied(ctx, toolName, record, out)
	}
	return out, changed
}

// RepairPayload is Repair for payloads of unknown shape. Non-object
// payloads are reported as unrepairable and returned unchanged.
func (p *Pipeline) RepairPayload(ctx context.Context, toolName string, payload interface{}) (interface{}, bool) {
	record, ok := payload.(map[string]interface{})
	if !ok {
		p.observer.Unrepairable(ctx, toolName, payload)
		return payload, false
	}
	return p.Repair(ctx, toolName, record)
}

func (p *Pipeline) repairDepth(ctx context.Context, toolName string, record map[string]interface{}, depth int) (map[string]interface{}, bool) {
	if inner, innerName, ok := unwrapEnvelope(record); ok && depth < maxEnvelopeDepth {
		out, _ := p.repairDepth(ctx, innerName, inner, depth+1)
		return out, true
	}

	current := record
	changed := false

	if tool, ok := p.registry.GetSchema(toolName); ok {
		if rules, ok := p.rules[toolName]; ok {
			next, ruleChanged, fired := applyRules(rules, &tool.InputSchema, current)
			for _, name := range fired {
				p.observer.RuleFired(ctx, toolName, name)
			}
			if ruleChanged {
				current = next
				changed = true
			}
		}
	}

	work := cloneRecord(current)
	aliasChanged := p.normalizer.substituteAliases(toolName, work)
	fixChanged := p.normalizer.universalFixes(toolName, work)
	if aliasChanged || fixChanged {
		current = work
		changed = true
	}

	if !changed {
		return record, false
	}
	return current, true
}

package repair

import (
	"regexp"

	"github.com/gidixi/openclaw/types"
)

// noiseKeys are argument keys some providers inject that no tool schema
// declares. They are dropped unless the target schema happens to
// declare them.
var noiseKeys = []string{"reasoning"}

// maxEnvelopeDepth bounds recursive envelope unwrapping so a
// pathological self-nesting payload cannot loop.
const maxEnvelopeDepth = 2

var toolNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]*$`)

// Normalizer applies schema-driven argument normalization: envelope
// unwrapping, alias substitution, and universal structural fixes.
type Normalizer struct {
	registry types.SchemaRegistry
	aliases  map[string]AliasMap
}

// NewNormalizer builds a Normalizer for the given registry. Alias maps
// are derived once per registered tool. extraPairs supplies additional
// per-tool alias/canonical pairs on top of the builtin table, keyed by
// tool name; it may be nil.
func NewNormalizer(registry types.SchemaRegistry, extraPairs map[string]map[string]string) *Normalizer {
	n := &Normalizer{
		registry: registry,
		aliases:  make(map[string]AliasMap),
	}
	for _, name := range registry.ListTools() {
		tool, ok := registry.GetSchema(name)
		if !ok {
			continue
		}
		pairs := knownAliasPairs
		if extra := extraPairs[name]; len(extra) > 0 {
			pairs = make(map[string]string, len(knownAliasPairs)+len(extra))
			for k, v := range knownAliasPairs {
				pairs[k] = v
			}
			for k, v := range extra {
				pairs[k] = v
			}
		}
		n.aliases[name] = ExtractAliasesWithPairs(&tool.InputSchema, pairs)
	}
	return n
}

// Normalize applies the full normalization sequence to the record:
// envelope unwrapping, then alias substitution, then universal fixes.
// It never mutates its input; the returned flag reports whether the
// result differs from the input. Unknown tools are returned unchanged.
func (n *Normalizer) Normalize(toolName string, record map[string]interface{}) (map[string]interface{}, bool) {
	return n.normalizeDepth(toolName, record, 0)
}

func (n *Normalizer) normalizeDepth(toolName string, record map[string]interface{}, depth int) (map[string]interface{}, bool) {
	if record == nil {
		return nil, false
	}
	if inner, innerName, ok := unwrapEnvelope(record); ok && depth < maxEnvelopeDepth {
		out, _ := n.normalizeDepth(innerName, inner, depth+1)
		return out, true
	}

	out := cloneRecord(record)
	changed := n.substituteAliases(toolName, out)
	if n.universalFixes(toolName, out) {
		changed = true
	}
	if !changed {
		return record, false
	}
	return out, true
}

// substituteAliases renames alias keys to their canonical names. A
// rename is skipped when the canonical key already exists, so present
// values are never overwritten.
func (n *Normalizer) substituteAliases(toolName string, record map[string]interface{}) bool {
	aliases, ok := n.aliases[toolName]
	if !ok || len(aliases) == 0 {
		return false
	}
	changed := false
	for alias, canonical := range aliases {
		value, present := record[alias]
		if !present {
			continue
		}
		if _, taken := record[canonical]; taken {
			continue
		}
		record[canonical] = value
		delete(record, alias)
		changed = true
	}
	return changed
}

// universalFixes applies schema-independent cleanups that are safe for
// every tool: joining string arrays into space-separated strings where
// the schema expects a string, and dropping known noise keys the schema
// does not declare.
func (n *Normalizer) universalFixes(toolName string, record map[string]interface{}) bool {
	tool, ok := n.registry.GetSchema(toolName)
	if !ok {
		return false
	}
	schema := &tool.InputSchema
	changed := false
	for key, value := range record {
		prop, ok := schema.Properties[key]
		if !ok || prop.Type != "string" {
			continue
		}
		if joined, ok := joinStringArray(value); ok {
			record[key] = joined
			changed = true
		}
	}
	for _, key := range noiseKeys {
		if _, present := record[key]; !present {
			continue
		}
		if schema.HasProperty(key) {
			continue
		}
		delete(record, key)
		changed = true
	}
	return changed
}

// unwrapEnvelope detects the double-encoded call shape
// {"name": <tool>, "arguments": {...}} and returns the inner record.
func unwrapEnvelope(record map[string]interface{}) (inner map[string]interface{}, toolName string, ok bool) {
	if len(record) != 2 {
		return nil, "", false
	}
	name, ok := record["name"].(string)
	if !ok || !toolNamePattern.MatchString(name) {
		return nil, "", false
	}
	args, ok := record["arguments"].(map[string]interface{})
	if !ok {
		return nil, "", false
	}
	return args, name, true
}

// joinStringArray converts a homogeneous string slice into a single
// space-joined string.
func joinStringArray(value interface{}) (string, bool) {
	items, ok := value.([]interface{})
	if !ok || len(items) == 0 {
		return "", false
	}
	joined := ""
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return "", false
		}
		if i > 0 {
			joined += " "
		}
		joined += s
	}
	return joined, true
}

func cloneRecord(record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}

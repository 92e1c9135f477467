package repair

import (
	"sort"
	"strings"
	"unicode"

	"github.com/gidixi/openclaw/types"
)

// AliasMap maps an alias parameter name to the canonical name it should
// be rewritten to.
type AliasMap map[string]string

// knownAliasPairs records alias/canonical parameter pairs that have
// shown up in model output across providers. Keys are aliases, values
// the canonical spelling.
var knownAliasPairs = map[string]string{
	"chat_id":    "chatId",
	"message_id": "messageId",
	"reply_to":   "replyTo",
	"node_id":    "nodeId",
	"job_id":     "jobId",
	"cmd":        "command",
	"msg":        "content",
	"text":       "content",
	"dir":        "workdir",
}

// ExtractAliases derives an alias map from a tool schema using the
// builtin known-pair table. See ExtractAliasesWithPairs.
func ExtractAliases(schema *types.ToolSchema) AliasMap {
	return ExtractAliasesWithPairs(schema, knownAliasPairs)
}

// ExtractAliasesWithPairs derives an alias map from the schema by
// pairing parameters whose sub-schemas are structurally identical and
// deciding which of each pair is canonical. Disambiguation order: the
// known-pair table, then camelCase over snake_case, then the shorter
// name. Pairs that remain ambiguous produce no mapping. When the schema
// declares no structural duplicates, known pairs whose canonical name
// the schema declares are used directly.
//
// The result never maps a name to itself, never maps one alias to two
// canonicals, and no name appears as both alias and canonical.
func ExtractAliasesWithPairs(schema *types.ToolSchema, pairs map[string]string) AliasMap {
	aliases := AliasMap{}
	if schema == nil || len(schema.Properties) == 0 {
		return aliases
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	conflicted := map[string]bool{}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			if !propertiesEqual(schema.Properties[a], schema.Properties[b]) {
				continue
			}
			alias, canonical, ok := disambiguate(a, b, pairs)
			if !ok {
				continue
			}
			if prev, dup := aliases[alias]; dup && prev != canonical {
				conflicted[alias] = true
				continue
			}
			aliases[alias] = canonical
		}
	}
	for alias := range conflicted {
		delete(aliases, alias)
	}

	if len(aliases) == 0 {
		for alias, canonical := range pairs {
			if alias != canonical && schema.HasProperty(canonical) && !schema.HasProperty(alias) {
				aliases[alias] = canonical
			}
		}
	}

	// A canonical name must never itself be rewritten.
	for alias, canonical := range aliases {
		if _, isTarget := aliases[canonical]; isTarget {
			delete(aliases, alias)
		}
	}
	return aliases
}

// disambiguate picks which of two structurally identical parameter
// names is the alias. Returns ok=false when no heuristic applies.
func disambiguate(a, b string, pairs map[string]string) (alias, canonical string, ok bool) {
	if pairs[a] == b {
		return a, b, true
	}
	if pairs[b] == a {
		return b, a, true
	}
	if isSnakeCase(a) && isCamelCase(b) {
		return a, b, true
	}
	if isSnakeCase(b) && isCamelCase(a) {
		return b, a, true
	}
	if len(a) < len(b) {
		return b, a, true
	}
	if len(b) < len(a) {
		return a, b, true
	}
	return "", "", false
}

// propertiesEqual performs deep structural comparison of two parameter
// sub-schemas: type, description, enum, items, and nested properties.
func propertiesEqual(a, b types.ToolProperty) bool {
	if a.Type != b.Type || a.Description != b.Description {
		return false
	}
	if len(a.Enum) != len(b.Enum) {
		return false
	}
	for i := range a.Enum {
		if a.Enum[i] != b.Enum[i] {
			return false
		}
	}
	if (a.Items == nil) != (b.Items == nil) {
		return false
	}
	if a.Items != nil && a.Items.Type != b.Items.Type {
		return false
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for name, ap := range a.Properties {
		bp, ok := b.Properties[name]
		if !ok || !propertiesEqual(ap, bp) {
			return false
		}
	}
	return true
}

func isSnakeCase(name string) bool {
	if !strings.Contains(name, "_") {
		return false
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isCamelCase(name string) bool {
	if strings.Contains(name, "_") {
		return false
	}
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

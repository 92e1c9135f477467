package repair

import (
	"net/url"
	"strings"

	"github.com/gidixi/openclaw/types"
)

// Rule is a single per-tool repair heuristic. Apply never mutates its
// input; it returns the repaired record and whether anything changed.
// A rule that cannot improve the record returns it unchanged.
type Rule interface {
	// Name identifies the rule in diagnostics.
	Name() string

	// Apply attempts the repair against the record.
	Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool)
}

// maxRulePasses caps rule application per record. Each pass applies the
// first rule that produces a change; two passes let a promotion expose
// work for a second rule without risking oscillation.
const maxRulePasses = 2

// defaultRules returns the per-tool rule lists in priority order.
func defaultRules() map[string][]Rule {
	return map[string][]Rule{
		"message": {
			&chatIdentifierCleanupRule{},
			&mediaRelocationRule{},
		},
		"gateway": {
			&actionPromotionRule{
				rule:    "gateway_action_promotion",
				donors:  []string{"action", "mode", "type", "command", "op"},
				aliases: gatewayActionAliases,
			},
		},
		"cron": {
			&actionPromotionRule{
				rule:    "cron_action_promotion",
				donors:  []string{"action", "mode", "type", "op", "verb"},
				aliases: cronActionAliases,
			},
			&cronStatePromotionRule{},
		},
		"nodes": {
			&actionPromotionRule{
				rule:   "nodes_action_promotion",
				donors: []string{"action", "mode", "type"},
			},
			&nodeCommandPromotionRule{},
		},
	}
}

// applyRules runs the rule list against the record: each pass applies
// the first rule that produces a change, up to maxRulePasses passes or
// until a pass changes nothing. Returns the final record, whether it
// differs from the input, and the names of the rules that fired.
func applyRules(rules []Rule, schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool, []string) {
	current := record
	changed := false
	var fired []string
	for pass := 0; pass < maxRulePasses; pass++ {
		passChanged := false
		for _, rule := range rules {
			next, ok := rule.Apply(schema, current)
			if !ok {
				continue
			}
			current = next
			changed = true
			passChanged = true
			fired = append(fired, rule.Name())
			break
		}
		if !passChanged {
			break
		}
	}
	return current, changed, fired
}

// hasValidAction reports whether the record's action field holds one of
// the schema's accepted enum values.
func hasValidAction(schema *types.ToolSchema, record map[string]interface{}) bool {
	action, ok := record["action"].(string)
	if !ok {
		return false
	}
	for _, v := range schema.EnumValues("action") {
		if v == action {
			return true
		}
	}
	return false
}

func looksLikeURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

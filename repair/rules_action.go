package repair

import (
	"strings"

	"github.com/gidixi/openclaw/types"
)

// gatewayActionAliases maps verbs models emit for gateway operations to
// the accepted action values.
var gatewayActionAliases = map[string]string{
	"start":   "restart",
	"reboot":  "restart",
	"reload":  "restart",
	"get":     "config.get",
	"show":    "config.get",
	"set":     "config.apply",
	"apply":   "config.apply",
	"patch":   "config.patch",
	"update":  "update.run",
	"upgrade": "update.run",
}

// cronActionAliases maps job-management verbs to the accepted cron
// action values.
var cronActionAliases = map[string]string{
	"create":  "add",
	"new":     "add",
	"delete":  "remove",
	"rm":      "remove",
	"exec":    "run",
	"trigger": "run",
	"ls":      "list",
}

// actionPromotionRule repairs a missing or invalid action field by
// looking through donor fields for a value that is either a valid enum
// member or a known semantic alias of one. The first donor that yields
// a valid action wins; the donor field is removed unless it is the
// action field itself.
type actionPromotionRule struct {
	rule    string
	donors  []string
	aliases map[string]string
}

func (r *actionPromotionRule) Name() string { return r.rule }

func (r *actionPromotionRule) Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool) {
	if hasValidAction(schema, record) {
		return record, false
	}
	accepted := schema.EnumValues("action")
	for _, donor := range r.donors {
		value, ok := record[donor].(string)
		if !ok {
			continue
		}
		target := ""
		for _, v := range accepted {
			if v == value {
				target = v
				break
			}
		}
		if target == "" {
			if mapped, ok := r.aliases[strings.ToLower(value)]; ok {
				for _, v := range accepted {
					if v == mapped {
						target = mapped
						break
					}
				}
			}
		}
		if target == "" {
			continue
		}
		out := cloneRecord(record)
		out["action"] = target
		if donor != "action" {
			delete(out, donor)
		}
		return out, true
	}
	return record, false
}

// cronStateVerbs maps job state verbs to the state value they imply.
var cronStateVerbs = map[string]string{
	"pause":  "paused",
	"resume": "active",
}

// cronStatePromotionRule handles state verbs ("pause", "resume") that
// belong to no cron action: it rewrites the call to an update carrying
// the implied state change.
type cronStatePromotionRule struct{}

func (r *cronStatePromotionRule) Name() string { return "cron_state_promotion" }

func (r *cronStatePromotionRule) Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool) {
	if hasValidAction(schema, record) {
		return record, false
	}
	for _, donor := range []string{"action", "mode", "type", "op", "verb"} {
		value, ok := record[donor].(string)
		if !ok {
			continue
		}
		state, ok := cronStateVerbs[strings.ToLower(value)]
		if !ok {
			continue
		}
		out := cloneRecord(record)
		out["action"] = "update"
		update := map[string]interface{}{}
		if existing, ok := out["update"].(map[string]interface{}); ok {
			update = cloneRecord(existing)
		}
		update["state"] = state
		out["update"] = update
		if donor != "action" {
			delete(out, donor)
		}
		return out, true
	}
	return record, false
}

// nodeInvokeCommands are node commands models emit directly as the
// action value instead of asking for an invoke.
var nodeInvokeCommands = map[string]bool{
	"screenshot":  true,
	"camera_snap": true,
	"locate":      true,
	"notify":      true,
	"run":         true,
}

// nodeCommandPromotionRule rewrites a node command placed in the action
// slot into the invoke form: action becomes "invoke" and the command
// moves to the command field.
type nodeCommandPromotionRule struct{}

func (r *nodeCommandPromotionRule) Name() string { return "node_command_promotion" }

func (r *nodeCommandPromotionRule) Apply(schema *types.ToolSchema, record map[string]interface{}) (map[string]interface{}, bool) {
	if hasValidAction(schema, record) {
		return record, false
	}
	for _, donor := range []string{"action", "mode", "type", "command"} {
		value, ok := record[donor].(string)
		if !ok || !nodeInvokeCommands[strings.ToLower(value)] {
			continue
		}
		out := cloneRecord(record)
		out["action"] = "invoke"
		if donor != "command" {
			if _, taken := out["command"]; !taken {
				out["command"] = strings.ToLower(value)
			}
			if donor != "action" {
				delete(out, donor)
			}
		}
		return out, true
	}
	return record, false
}

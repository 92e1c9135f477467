package types

import (
	"fmt"
	"sort"
	"sync"
)

// SchemaRegistry provides schema lookup for tools available in the
// current conversation turn.
type SchemaRegistry interface {
	// GetSchema returns the schema for the named tool.
	GetSchema(toolName string) (*Tool, bool)

	// ListTools returns the registered tool names in sorted order.
	ListTools() []string

	// RegisterTool adds or replaces a tool schema.
	RegisterTool(tool *Tool) error
}

// StandardSchemaRegistry is a threadsafe SchemaRegistry pre-populated
// with the builtin agent tools.
type StandardSchemaRegistry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

func NewStandardSchemaRegistry() *StandardSchemaRegistry {
	r := &StandardSchemaRegistry{tools: make(map[string]*Tool)}
	r.registerBuiltinTools()
	return r
}

// NewRegistryFromTools builds a registry holding the builtin tools plus
// the supplied per-turn tool set. Supplied schemas win on name clash.
func NewRegistryFromTools(tools []Tool) *StandardSchemaRegistry {
	r := NewStandardSchemaRegistry()
	for i := range tools {
		t := tools[i]
		_ = r.RegisterTool(&t)
	}
	return r
}

func (r *StandardSchemaRegistry) GetSchema(toolName string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[toolName]
	return tool, ok
}

func (r *StandardSchemaRegistry) ListTools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *StandardSchemaRegistry) RegisterTool(tool *Tool) error {
	if tool == nil {
		return fmt.Errorf("cannot register nil tool")
	}
	if tool.Name == "" {
		return fmt.Errorf("cannot register tool with empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
	return nil
}

func (r *StandardSchemaRegistry) registerBuiltinTools() {
	for _, name := range []string{"message", "gateway", "cron", "nodes", "exec", "web_search"} {
		if tool := GetBuiltinToolSchema(name); tool != nil {
			r.tools[name] = tool
		}
	}
}

// GetBuiltinToolSchema returns the schema for a builtin agent tool, or
// nil when the name is not a builtin.
func GetBuiltinToolSchema(toolName string) *Tool {
	switch toolName {
	case "message":
		return &Tool{
			Name:        "message",
			Description: "Send a message to a chat channel",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"channel": {
						Type:        "string",
						Description: "Messaging channel to deliver through",
					},
					"chatId": {
						Type:        "string",
						Description: "Target chat identifier",
					},
					"chat_id": {
						Type:        "string",
						Description: "Target chat identifier",
					},
					"content": {
						Type:        "string",
						Description: "Message body",
					},
					"media": {
						Type:        "string",
						Description: "URL of an attachment to send with the message",
					},
					"replyTo": {
						Type:        "string",
						Description: "Identifier of the message being replied to",
					},
				},
				Required: []string{"content"},
			},
		}
	case "gateway":
		return &Tool{
			Name:        "gateway",
			Description: "Control the agent gateway process",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"action": {
						Type:        "string",
						Description: "Gateway operation to perform",
						Enum:        []string{"restart", "config.get", "config.apply", "config.patch", "update.run"},
					},
					"config": {
						Type:        "object",
						Description: "Configuration document for config.apply and config.patch",
					},
					"restartDelayMs": {
						Type:        "number",
						Description: "Delay before restart, in milliseconds",
					},
				},
				Required: []string{"action"},
			},
		}
	case "cron":
		return &Tool{
			Name:        "cron",
			Description: "Manage scheduled agent jobs",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"action": {
						Type:        "string",
						Description: "Job operation to perform",
						Enum:        []string{"status", "list", "add", "remove", "run", "enable", "disable", "update"},
					},
					"jobId": {
						Type:        "string",
						Description: "Identifier of an existing job",
					},
					"job": {
						Type:        "object",
						Description: "Job definition for add",
						Properties: map[string]ToolProperty{
							"name":     {Type: "string"},
							"schedule": {Type: "string"},
							"command":  {Type: "string"},
						},
					},
					"update": {
						Type:        "object",
						Description: "Partial job changes for update",
						Properties: map[string]ToolProperty{
							"state": {
								Type: "string",
								Enum: []string{"paused", "active"},
							},
							"schedule": {Type: "string"},
						},
					},
				},
				Required: []string{"action"},
			},
		}
	case "nodes":
		return &Tool{
			Name:        "nodes",
			Description: "Inspect and command paired device nodes",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"action": {
						Type:        "string",
						Description: "Node operation to perform",
						Enum:        []string{"list", "describe", "invoke"},
					},
					"nodeId": {
						Type:        "string",
						Description: "Target node identifier",
					},
					"command": {
						Type:        "string",
						Description: "Command to invoke on the node",
					},
					"params": {
						Type:        "object",
						Description: "Command parameters",
					},
				},
				Required: []string{"action"},
			},
		}
	case "exec":
		return &Tool{
			Name:        "exec",
			Description: "Run a shell command on the host",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"command": {
						Type:        "string",
						Description: "Command line to execute",
					},
					"workdir": {
						Type:        "string",
						Description: "Working directory",
					},
					"timeoutSec": {
						Type:        "number",
						Description: "Kill the command after this many seconds",
					},
				},
				Required: []string{"command"},
			},
		}
	case "web_search":
		return &Tool{
			Name:        "web_search",
			Description: "Search the web",
			InputSchema: ToolSchema{
				Type: "object",
				Properties: map[string]ToolProperty{
					"query": {
						Type:        "string",
						Description: "Search query",
					},
					"maxResults": {
						Type:        "number",
						Description: "Maximum number of results to return",
					},
				},
				Required: []string{"query"},
			},
		}
	default:
		return nil
	}
}

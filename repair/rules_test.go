package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gidixi/openclaw/types"
)

func builtinSchema(t *testing.T, toolName string) *types.ToolSchema {
	t.Helper()
	tool := types.GetBuiltinToolSchema(toolName)
	require.NotNil(t, tool)
	return &tool.InputSchema
}

func TestChatIdentifierCleanup(t *testing.T) {
	schema := builtinSchema(t, "message")
	rule := &chatIdentifierCleanupRule{}

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
		changed  bool
	}{
		{
			name:     "short numeric fragment dropped",
			input:    map[string]interface{}{"chatId": "14760?", "content": "hi"},
			expected: map[string]interface{}{"content": "hi"},
			changed:  true,
		},
		{
			name:     "long identifier cleaned and kept",
			input:    map[string]interface{}{"chatId": "123456789?", "content": "hi"},
			expected: map[string]interface{}{"chatId": "123456789", "content": "hi"},
			changed:  true,
		},
		{
			name:     "ellipsis marker stripped",
			input:    map[string]interface{}{"chatId": "987654321…", "content": "hi"},
			expected: map[string]interface{}{"chatId": "987654321", "content": "hi"},
			changed:  true,
		},
		{
			name:     "three-dot marker stripped",
			input:    map[string]interface{}{"replyTo": "555000111...", "content": "hi"},
			expected: map[string]interface{}{"replyTo": "555000111", "content": "hi"},
			changed:  true,
		},
		{
			name:     "stacked markers fully stripped before drop",
			input:    map[string]interface{}{"chatId": "14760?...?...", "content": "hi"},
			expected: map[string]interface{}{"content": "hi"},
			changed:  true,
		},
		{
			name:     "stacked markers on long identifier",
			input:    map[string]interface{}{"chatId": "123456789?...?", "content": "hi"},
			expected: map[string]interface{}{"chatId": "123456789", "content": "hi"},
			changed:  true,
		},
		{
			name:     "untruncated value untouched",
			input:    map[string]interface{}{"chatId": "123456789", "content": "hi"},
			expected: map[string]interface{}{"chatId": "123456789", "content": "hi"},
			changed:  false,
		},
		{
			name:     "short non-numeric value kept after cleanup",
			input:    map[string]interface{}{"chatId": "dev?", "content": "hi"},
			expected: map[string]interface{}{"chatId": "dev", "content": "hi"},
			changed:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := rule.Apply(schema, tc.input)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMediaURLRelocation(t *testing.T) {
	schema := builtinSchema(t, "message")
	rule := &mediaRelocationRule{}

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
		changed  bool
	}{
		{
			name: "photo moved into media",
			input: map[string]interface{}{
				"photo":   "https://cdn.example.com/cat.png",
				"content": "look",
			},
			expected: map[string]interface{}{
				"media":   "https://cdn.example.com/cat.png",
				"content": "look",
			},
			changed: true,
		},
		{
			name: "donor replaces non-URL media value",
			input: map[string]interface{}{
				"media": "the attached picture",
				"url":   "https://cdn.example.com/dog.png",
			},
			expected: map[string]interface{}{
				"media": "https://cdn.example.com/dog.png",
			},
			changed: true,
		},
		{
			name: "existing media URL is never overwritten",
			input: map[string]interface{}{
				"media": "https://cdn.example.com/keep.png",
				"photo": "https://cdn.example.com/other.png",
			},
			expected: map[string]interface{}{
				"media": "https://cdn.example.com/keep.png",
				"photo": "https://cdn.example.com/other.png",
			},
			changed: false,
		},
		{
			name: "non-URL donor ignored",
			input: map[string]interface{}{
				"photo":   "cat.png",
				"content": "look",
			},
			expected: map[string]interface{}{
				"photo":   "cat.png",
				"content": "look",
			},
			changed: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := rule.Apply(schema, tc.input)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGatewayActionPromotion(t *testing.T) {
	schema := builtinSchema(t, "gateway")
	rules := defaultRules()["gateway"]

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "mode donor with exact enum value",
			input:    map[string]interface{}{"mode": "restart"},
			expected: map[string]interface{}{"action": "restart"},
		},
		{
			name:     "semantic alias start becomes restart",
			input:    map[string]interface{}{"action": "start"},
			expected: map[string]interface{}{"action": "restart"},
		},
		{
			name:     "type donor with dotted alias",
			input:    map[string]interface{}{"type": "get"},
			expected: map[string]interface{}{"action": "config.get"},
		},
		{
			name:     "op donor maps upgrade to update.run",
			input:    map[string]interface{}{"op": "upgrade"},
			expected: map[string]interface{}{"action": "update.run"},
		},
		{
			name: "sibling fields survive promotion",
			input: map[string]interface{}{
				"mode":           "reload",
				"restartDelayMs": float64(500),
			},
			expected: map[string]interface{}{
				"action":         "restart",
				"restartDelayMs": float64(500),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, _ := applyRules(rules, schema, tc.input)
			assert.True(t, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGatewayValidActionUntouched(t *testing.T) {
	schema := builtinSchema(t, "gateway")
	rules := defaultRules()["gateway"]

	input := map[string]interface{}{"action": "config.apply", "config": map[string]interface{}{"k": "v"}}
	got, changed, fired := applyRules(rules, schema, input)
	assert.False(t, changed)
	assert.Empty(t, fired)
	assert.Equal(t, input, got)
}

func TestCronActionPromotion(t *testing.T) {
	schema := builtinSchema(t, "cron")
	rules := defaultRules()["cron"]

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "create aliased to add",
			input:    map[string]interface{}{"action": "create", "job": map[string]interface{}{"name": "n"}},
			expected: map[string]interface{}{"action": "add", "job": map[string]interface{}{"name": "n"}},
		},
		{
			name:     "rm aliased to remove",
			input:    map[string]interface{}{"type": "rm", "jobId": "backup"},
			expected: map[string]interface{}{"action": "remove", "jobId": "backup"},
		},
		{
			name:     "trigger aliased to run",
			input:    map[string]interface{}{"verb": "trigger", "jobId": "backup"},
			expected: map[string]interface{}{"action": "run", "jobId": "backup"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, _ := applyRules(rules, schema, tc.input)
			assert.True(t, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCronStatePromotion(t *testing.T) {
	schema := builtinSchema(t, "cron")
	rules := defaultRules()["cron"]

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:  "pause wrapped into update state",
			input: map[string]interface{}{"action": "pause", "jobId": "backup"},
			expected: map[string]interface{}{
				"action": "update",
				"jobId":  "backup",
				"update": map[string]interface{}{"state": "paused"},
			},
		},
		{
			name:  "resume wrapped into update state",
			input: map[string]interface{}{"mode": "resume", "jobId": "backup"},
			expected: map[string]interface{}{
				"action": "update",
				"jobId":  "backup",
				"update": map[string]interface{}{"state": "active"},
			},
		},
		{
			name: "existing update fields preserved",
			input: map[string]interface{}{
				"action": "pause",
				"jobId":  "backup",
				"update": map[string]interface{}{"schedule": "0 3 * * *"},
			},
			expected: map[string]interface{}{
				"action": "update",
				"jobId":  "backup",
				"update": map[string]interface{}{"schedule": "0 3 * * *", "state": "paused"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, fired := applyRules(rules, schema, tc.input)
			assert.True(t, changed)
			assert.Contains(t, fired, "cron_state_promotion")
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNodeCommandPromotion(t *testing.T) {
	schema := builtinSchema(t, "nodes")
	rules := defaultRules()["nodes"]

	testCases := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:  "screenshot verb becomes invoke",
			input: map[string]interface{}{"action": "screenshot", "nodeId": "phone-1"},
			expected: map[string]interface{}{
				"action":  "invoke",
				"command": "screenshot",
				"nodeId":  "phone-1",
			},
		},
		{
			name:  "command donor keeps its value",
			input: map[string]interface{}{"command": "camera_snap", "nodeId": "phone-1"},
			expected: map[string]interface{}{
				"action":  "invoke",
				"command": "camera_snap",
				"nodeId":  "phone-1",
			},
		},
		{
			name:     "mode donor with exact enum value",
			input:    map[string]interface{}{"mode": "list"},
			expected: map[string]interface{}{"action": "list"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed, _ := applyRules(rules, schema, tc.input)
			assert.True(t, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRulesAreIdempotent(t *testing.T) {
	samples := []struct {
		toolName string
		input    map[string]interface{}
	}{
		{"message", map[string]interface{}{"chatId": "14760?", "content": "hi"}},
		{"message", map[string]interface{}{"photo": "https://cdn.example.com/cat.png"}},
		{"gateway", map[string]interface{}{"mode": "restart"}},
		{"cron", map[string]interface{}{"action": "pause", "jobId": "backup"}},
		{"nodes", map[string]interface{}{"action": "screenshot"}},
	}

	allRules := defaultRules()
	for _, s := range samples {
		schema := builtinSchema(t, s.toolName)
		once, changed, _ := applyRules(allRules[s.toolName], schema, s.input)
		require.True(t, changed, "sample %v should be repaired", s.input)

		twice, changedAgain, _ := applyRules(allRules[s.toolName], schema, once)
		assert.False(t, changedAgain, "second pass must be a no-op for %v", s.input)
		assert.Equal(t, once, twice)
	}
}

func TestRulesDoNotMutateInput(t *testing.T) {
	schema := builtinSchema(t, "gateway")
	input := map[string]interface{}{"mode": "restart"}

	_, changed, _ := applyRules(defaultRules()["gateway"], schema, input)
	require.True(t, changed)
	assert.Equal(t, map[string]interface{}{"mode": "restart"}, input)
}

package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gidixi/openclaw/types"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return NewNormalizer(types.NewStandardSchemaRegistry(), nil)
}

func TestNormalizeEnvelopeUnwrapping(t *testing.T) {
	n := newTestNormalizer(t)

	testCases := []struct {
		name     string
		toolName string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "double-encoded exec call",
			toolName: "exec",
			input: map[string]interface{}{
				"name":      "exec",
				"arguments": map[string]interface{}{"command": "ls"},
			},
			expected: map[string]interface{}{"command": "ls"},
		},
		{
			name:     "inner tool schema drives normalization",
			toolName: "message",
			input: map[string]interface{}{
				"name": "message",
				"arguments": map[string]interface{}{
					"chat_id": "99887766",
					"content": "hi",
				},
			},
			expected: map[string]interface{}{
				"chatId":  "99887766",
				"content": "hi",
			},
		},
		{
			name:     "envelope naming a different tool",
			toolName: "message",
			input: map[string]interface{}{
				"name":      "exec",
				"arguments": map[string]interface{}{"command": "uptime"},
			},
			expected: map[string]interface{}{"command": "uptime"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := n.Normalize(tc.toolName, tc.input)
			assert.True(t, changed)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeEnvelopeDetectionIsStrict(t *testing.T) {
	testCases := []struct {
		name  string
		input map[string]interface{}
	}{
		{
			name: "extra key alongside name and arguments",
			input: map[string]interface{}{
				"name":      "exec",
				"arguments": map[string]interface{}{"command": "ls"},
				"id":        "call_1",
			},
		},
		{
			name: "arguments is not an object",
			input: map[string]interface{}{
				"name":      "exec",
				"arguments": "command=ls",
			},
		},
		{
			name: "name does not look like a tool identifier",
			input: map[string]interface{}{
				"name":      "not a tool!",
				"arguments": map[string]interface{}{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := unwrapEnvelope(tc.input)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeAliasSubstitution(t *testing.T) {
	n := newTestNormalizer(t)

	got, changed := n.Normalize("message", map[string]interface{}{
		"chat_id": "1234567890",
		"content": "hello",
	})
	require.True(t, changed)
	assert.Equal(t, "1234567890", got["chatId"])
	assert.NotContains(t, got, "chat_id")
}

func TestNormalizeNeverOverwritesCanonical(t *testing.T) {
	n := newTestNormalizer(t)

	input := map[string]interface{}{
		"chatId":  "1111111",
		"chat_id": "2222222",
		"content": "hello",
	}
	got, changed := n.Normalize("message", input)
	assert.False(t, changed)
	assert.Equal(t, "1111111", got["chatId"])
	assert.Equal(t, "2222222", got["chat_id"])
}

func TestNormalizeUniversalFixes(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("string array joined for string parameter", func(t *testing.T) {
		got, changed := n.Normalize("exec", map[string]interface{}{
			"command": []interface{}{"ls", "-la", "/tmp"},
		})
		assert.True(t, changed)
		assert.Equal(t, "ls -la /tmp", got["command"])
	})

	t.Run("mixed array left alone", func(t *testing.T) {
		input := map[string]interface{}{
			"command": []interface{}{"ls", float64(2)},
		}
		got, changed := n.Normalize("exec", input)
		assert.False(t, changed)
		assert.Equal(t, input, got)
	})

	t.Run("noise key dropped", func(t *testing.T) {
		got, changed := n.Normalize("exec", map[string]interface{}{
			"command":   "ls",
			"reasoning": "the user wants a directory listing",
		})
		assert.True(t, changed)
		assert.NotContains(t, got, "reasoning")
		assert.Equal(t, "ls", got["command"])
	})
}

func TestNormalizeUnknownToolPassesThrough(t *testing.T) {
	n := newTestNormalizer(t)

	input := map[string]interface{}{
		"whatever":  "value",
		"reasoning": "kept because no schema claims otherwise",
	}
	got, changed := n.Normalize("frobnicate", input)
	assert.False(t, changed)
	assert.Equal(t, input, got)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := newTestNormalizer(t)

	input := map[string]interface{}{
		"chat_id": "1234567890",
		"content": "hello",
	}
	_, changed := n.Normalize("message", input)
	require.True(t, changed)
	assert.Equal(t, map[string]interface{}{
		"chat_id": "1234567890",
		"content": "hello",
	}, input)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	samples := []struct {
		toolName string
		input    map[string]interface{}
	}{
		{"exec", map[string]interface{}{"name": "exec", "arguments": map[string]interface{}{"command": "ls"}}},
		{"message", map[string]interface{}{"chat_id": "1234567890", "content": "hi"}},
		{"exec", map[string]interface{}{"command": []interface{}{"ls", "-la"}}},
	}

	for _, s := range samples {
		once, _ := n.Normalize(s.toolName, s.input)
		twice, changed := n.Normalize(s.toolName, once)
		assert.False(t, changed, "second pass must be a no-op for %v", s.input)
		assert.Equal(t, once, twice)
	}
}

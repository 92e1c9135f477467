package types

// EventKind discriminates the events a provider stream can emit.
type EventKind string

const (
	EventTextDelta     EventKind = "text_delta"
	EventToolCallStart EventKind = "tool_call_start"
	EventToolCallDelta EventKind = "tool_call_delta"
	EventToolCallEnd   EventKind = "tool_call_end"
	EventDone          EventKind = "done"
	EventError         EventKind = "error"
)

// ToolCall is a fully parsed tool invocation produced by the model.
// Arguments is nil when the provider failed to parse the accumulated
// argument text into an object.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Content is one block of an assistant message: either text or a
// completed tool use.
type Content struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text,omitempty"`
	ID    string                 `json:"id,omitempty"`
	Name  string                 `json:"name,omitempty"`
	Input map[string]interface{} `json:"input,omitempty"`
}

// AssistantMessage is the final message snapshot carried by a done event.
type AssistantMessage struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// StreamEvent is one element of a model response stream. Exactly the
// fields relevant to Kind are populated:
//
//   - text_delta: Text
//   - tool_call_start: ToolCall (ID and Name only)
//   - tool_call_delta: ToolCall (ID), ArgsFragment (raw argument text)
//   - tool_call_end: ToolCall (complete), Message (optional partial snapshot)
//   - done: Message
//   - error: Err
type StreamEvent struct {
	Kind         EventKind
	Text         string
	ToolCall     *ToolCall
	ArgsFragment string
	Message      *AssistantMessage
	Err          error
}

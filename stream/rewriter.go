package stream

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/gidixi/openclaw/internal"
	"github.com/gidixi/openclaw/repair"
	"github.com/gidixi/openclaw/types"
)

// Observer receives stream-level diagnostics. Implementations must be
// cheap; they run on the rewriter goroutine.
type Observer interface {
	// FragmentInvalid reports that the accumulated raw argument text of
	// a tool call is not valid JSON at tool_call_end.
	FragmentInvalid(ctx context.Context, callID, toolName string)

	// LeakedTokens reports the control-token count once, when the
	// stream ends with a nonzero count.
	LeakedTokens(ctx context.Context, count int)

	// StreamEnded reports stream completion. err is nil on a clean
	// close, the forwarded error on an error event, or the context
	// error on cancellation.
	StreamEnded(ctx context.Context, events int, err error)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) FragmentInvalid(context.Context, string, string) {}
func (NopObserver) LeakedTokens(context.Context, int)               {}
func (NopObserver) StreamEnded(context.Context, int, error)         {}

// Rewriter transforms a model response stream in flight, repairing
// tool-call arguments as events pass through. Events stay in order and
// map one-to-one; only tool_call_end and done events are ever replaced,
// and only when repair changed something.
type Rewriter struct {
	pipeline *repair.Pipeline
	observer Observer
	markers  []string
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithObserver installs a diagnostics observer.
func WithObserver(obs Observer) Option {
	return func(rw *Rewriter) {
		if obs != nil {
			rw.observer = obs
		}
	}
}

// WithLeakMarkers replaces the control-token marker set.
func WithLeakMarkers(markers []string) Option {
	return func(rw *Rewriter) {
		rw.markers = markers
	}
}

func NewRewriter(pipeline *repair.Pipeline, opts ...Option) *Rewriter {
	rw := &Rewriter{
		pipeline: pipeline,
		observer: NopObserver{},
		markers:  DefaultLeakMarkers,
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Pipe starts a goroutine that reads in, repairs, and forwards to the
// returned channel. The output channel is unbuffered, so backpressure
// from the consumer propagates to the producer with at most one event
// in flight. The output is closed when in closes, after an error event
// is forwarded, or when ctx is cancelled; an error event is never
// followed by done.
func (rw *Rewriter) Pipe(ctx context.Context, in <-chan types.StreamEvent) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	go rw.run(ctx, in, out)
	return out
}

func (rw *Rewriter) run(ctx context.Context, in <-chan types.StreamEvent, out chan<- types.StreamEvent) {
	defer close(out)

	ctx, _ = internal.EnsureStreamID(ctx)
	leaks := NewLeakDetector(rw.markers)
	fragments := make(map[string]string)
	events := 0

	finish := func(err error) {
		if leaks.Count() > 0 {
			rw.observer.LeakedTokens(ctx, leaks.Count())
		}
		rw.observer.StreamEnded(ctx, events, err)
	}

	for {
		select {
		case <-ctx.Done():
			finish(ctx.Err())
			return
		case ev, ok := <-in:
			if !ok {
				finish(nil)
				return
			}
			events++

			switch ev.Kind {
			case types.EventTextDelta:
				leaks.Feed(ev.Text)
			case types.EventToolCallDelta:
				if ev.ToolCall != nil {
					fragments[ev.ToolCall.ID] += ev.ArgsFragment
				}
			case types.EventToolCallEnd:
				ev = rw.rewriteToolCallEnd(ctx, ev, fragments)
			case types.EventDone:
				ev = rw.rewriteDone(ctx, ev)
			case types.EventError:
				select {
				case out <- ev:
				case <-ctx.Done():
					finish(ctx.Err())
					return
				}
				finish(ev.Err)
				return
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				finish(ctx.Err())
				return
			}
		}
	}
}

// rewriteToolCallEnd repairs a completed tool call and, when present,
// the partial message snapshot riding on the same event. The event is
// returned untouched when repair changes nothing.
func (rw *Rewriter) rewriteToolCallEnd(ctx context.Context, ev types.StreamEvent, fragments map[string]string) types.StreamEvent {
	tc := ev.ToolCall
	if tc == nil {
		return ev
	}
	if raw := fragments[tc.ID]; raw != "" && !gjson.Valid(raw) {
		rw.observer.FragmentInvalid(ctx, tc.ID, tc.Name)
	}
	delete(fragments, tc.ID)
	fixed := ev
	changed := false
	if repaired, ok := rw.pipeline.Repair(ctx, tc.Name, tc.Arguments); ok {
		fixed.ToolCall = &types.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: repaired}
		changed = true
	}
	if msg, ok := rw.rewriteMessage(ctx, ev.Message); ok {
		fixed.Message = msg
		changed = true
	}
	if !changed {
		return ev
	}
	return fixed
}

// rewriteDone repairs the tool_use blocks inside the final message
// snapshot so the snapshot matches the repaired call events.
func (rw *Rewriter) rewriteDone(ctx context.Context, ev types.StreamEvent) types.StreamEvent {
	msg, ok := rw.rewriteMessage(ctx, ev.Message)
	if !ok {
		return ev
	}
	fixed := ev
	fixed.Message = msg
	return fixed
}

// rewriteMessage repairs every tool_use block of a message snapshot.
// Returns ok=false when nothing changed; unchanged blocks are reused.
func (rw *Rewriter) rewriteMessage(ctx context.Context, msg *types.AssistantMessage) (*types.AssistantMessage, bool) {
	if msg == nil {
		return nil, false
	}
	var content []types.Content
	for i, block := range msg.Content {
		if block.Type != "tool_use" || block.Input == nil {
			continue
		}
		repaired, changed := rw.pipeline.Repair(ctx, block.Name, block.Input)
		if !changed {
			continue
		}
		if content == nil {
			content = make([]types.Content, len(msg.Content))
			copy(content, msg.Content)
		}
		content[i].Input = repaired
	}
	if content == nil {
		return nil, false
	}
	return &types.AssistantMessage{Role: msg.Role, Content: content}, true
}

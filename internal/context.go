package internal

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	StreamIDKey contextKey = "stream_id"
)

// GetStreamID retrieves the stream ID from context
func GetStreamID(ctx context.Context) string {
	if id, ok := ctx.Value(StreamIDKey).(string); ok {
		return id
	}
	return "unknown"
}

// WithStreamID adds a stream ID to the context
func WithStreamID(ctx context.Context, streamID string) context.Context {
	return context.WithValue(ctx, StreamIDKey, streamID)
}

// EnsureStreamID returns a context that carries a stream ID, minting a
// fresh one when the caller supplied none.
func EnsureStreamID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(StreamIDKey).(string); ok && id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, StreamIDKey, id), id
}

// Package requestcontext provides transport-independent accessors for
// request-scoped values.
//
// Middleware and the command dispatcher set these values; services and stores
// read them without importing net/http.
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	commandIDKey   struct{}
	actionKey      struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyCommandID   = commandIDKey{}
	ContextKeyAction      = actionKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// RequestID retrieves the transport request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// CommandID retrieves the id of the command envelope being executed.
func CommandID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyCommandID).(string); ok {
		return v
	}
	return ""
}

func WithCommandID(ctx context.Context, commandID string) context.Context {
	return context.WithValue(ctx, ContextKeyCommandID, commandID)
}

// Action retrieves the action name of the command being executed.
func Action(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyAction).(string); ok {
		return v
	}
	return ""
}

func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, ContextKeyAction, action)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

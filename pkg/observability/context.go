package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDCtxKey contextKey = "correlation_id"
	requestIDCtxKey     contextKey = "request_id"
	callIDCtxKey        contextKey = "call_id"
	meetingIDCtxKey     contextKey = "meeting_id"
)

// Attribute keys used in logs and metrics.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	CallIDKey        = "call_id"
	MeetingIDKey     = "meeting_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
	StatusKey        = "status"
)

// WithCorrelationID adds a correlation ID to the context.
// If id is empty, a new UUID is generated.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from context.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDCtxKey)
}

// WithRequestID adds a request ID to the context.
// If id is empty, a new UUID is generated.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDCtxKey)
}

// WithCallID tags the context with the telephony leg being handled.
func WithCallID(ctx context.Context, callID string) context.Context {
	if callID == "" {
		return ctx
	}
	return context.WithValue(ctx, callIDCtxKey, callID)
}

// CallIDFromContext extracts the call leg id.
func CallIDFromContext(ctx context.Context) string {
	return stringValue(ctx, callIDCtxKey)
}

// WithMeetingID tags the context with the meeting being handled.
func WithMeetingID(ctx context.Context, meetingID string) context.Context {
	if meetingID == "" {
		return ctx
	}
	return context.WithValue(ctx, meetingIDCtxKey, meetingID)
}

// MeetingIDFromContext extracts the meeting id.
func MeetingIDFromContext(ctx context.Context) string {
	return stringValue(ctx, meetingIDCtxKey)
}

// NewRequestContext creates a context with a new request ID. The parent
// correlation ID is kept when given, otherwise a new one is generated.
func NewRequestContext(ctx context.Context, parentCorrelationID string) context.Context {
	ctx = WithRequestID(ctx, "")
	return WithCorrelationID(ctx, parentCorrelationID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

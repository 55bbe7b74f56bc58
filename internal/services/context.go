package services

import "context"

type contextKey string

const (
	mediaIDKey   contextKey = "media_id"
	viewKey      contextKey = "view"
	requestIDKey contextKey = "request_id"
)

// WithMediaID annotates context with the catalog media identifier being handled.
func WithMediaID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, mediaIDKey, id)
}

// MediaIDFromContext extracts the media identifier if present.
func MediaIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(mediaIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithView annotates context with the view (browse, detail, cli) that started the operation.
func WithView(ctx context.Context, view string) context.Context {
	if view == "" {
		return ctx
	}
	return context.WithValue(ctx, viewKey, view)
}

// ViewFromContext returns the view name if present.
func ViewFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(viewKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

package observability

import (
	"context"
	"log/slog"
)

// LogContext holds structured logging context information.
type LogContext struct {
	SubscriptionID string
	Event          string
	Target         string
	StoreKey       string
	Backend        string
}

// logContextKeyType is used for context values.
type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithSubscriptionID adds a subscription ID to the context.
func WithSubscriptionID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.SubscriptionID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithEvent adds an event name to the context.
func WithEvent(ctx context.Context, event string) context.Context {
	lc := extractLogContext(ctx)
	lc.Event = event
	return context.WithValue(ctx, logContextKey, lc)
}

// WithTarget adds a target kind to the context.
func WithTarget(ctx context.Context, target string) context.Context {
	lc := extractLogContext(ctx)
	lc.Target = target
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStoreKey adds a storage key to the context.
func WithStoreKey(ctx context.Context, key string) context.Context {
	lc := extractLogContext(ctx)
	lc.StoreKey = key
	return context.WithValue(ctx, logContextKey, lc)
}

// WithBackend adds a storage backend name to the context.
func WithBackend(ctx context.Context, backend string) context.Context {
	lc := extractLogContext(ctx)
	lc.Backend = backend
	return context.WithValue(ctx, logContextKey, lc)
}

// extractLogContext retrieves or creates a LogContext from the context.
func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// getLogAttrs returns slog attributes from the context's LogContext.
func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.SubscriptionID != "" {
		attrs = append(attrs, slog.String(KeySubscriptionID, lc.SubscriptionID))
	}
	if lc.Event != "" {
		attrs = append(attrs, slog.String(KeyEvent, lc.Event))
	}
	if lc.Target != "" {
		attrs = append(attrs, slog.String(KeyTarget, lc.Target))
	}
	if lc.StoreKey != "" {
		attrs = append(attrs, slog.String(KeyStoreKey, lc.StoreKey))
	}
	if lc.Backend != "" {
		attrs = append(attrs, slog.String(KeyBackend, lc.Backend))
	}

	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	contextAttrs := getLogAttrs(ctx)
	allAttrs := append(contextAttrs, attrs...)
	slog.LogAttrs(ctx, slog.LevelInfo, msg, allAttrs...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	contextAttrs := getLogAttrs(ctx)
	allAttrs := append(contextAttrs, attrs...)
	slog.LogAttrs(ctx, slog.LevelWarn, msg, allAttrs...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	contextAttrs := getLogAttrs(ctx)
	allAttrs := append(contextAttrs, attrs...)
	slog.LogAttrs(ctx, slog.LevelError, msg, allAttrs...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	contextAttrs := getLogAttrs(ctx)
	allAttrs := append(contextAttrs, attrs...)
	slog.LogAttrs(ctx, slog.LevelDebug, msg, allAttrs...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

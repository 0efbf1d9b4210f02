package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// TenantKeyKey is the context key for the tenant key
	TenantKeyKey contextKey = "tenant_key"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithTenantKey adds the tenant key to context and returns enriched logger
func WithTenantKey(ctx context.Context, logger *zap.Logger, tenantKey string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, TenantKeyKey, tenantKey)
	enrichedLogger := logger.With(zap.String("tenant", tenantKey))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetTenantKey retrieves the tenant key from context
func GetTenantKey(ctx context.Context) string {
	if tenantKey, ok := ctx.Value(TenantKeyKey).(string); ok {
		return tenantKey
	}
	return ""
}

// L returns the context logger enriched with request and tenant fields.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if tenantKey := GetTenantKey(ctx); tenantKey != "" {
		l = l.With(zap.String("tenant", tenantKey))
	}
	return l
}

package context

import (
	"context"
)

// GetRequestIPAddress returns an empty string outside of an HTTP request.
func GetRequestIPAddress(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return val
	}
	return ""
}

func WithRequestIPAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, address)
}

func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return val
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

package api

import "context"

type contextKey string

const originKey contextKey = "api_origin"

// WithOrigin attaches the name of the issuing screen or command to the
// context for request event logging.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFrom extracts the origin label from the context.
func OriginFrom(ctx context.Context) string {
	if v, ok := ctx.Value(originKey).(string); ok {
		return v
	}
	return "unknown"
}

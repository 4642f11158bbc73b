package httputil

import (
	"context"
	"strings"
)

const maxRequestIDLen = 64

type requestIDKey struct{}

// NormalizeRequestID trims a caller-supplied id and rejects anything too long
// or containing control characters, so it can be echoed and logged safely.
func NormalizeRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if len(id) > maxRequestIDLen {
		return ""
	}
	if strings.IndexFunc(id, func(r rune) bool { return r < 0x21 || r > 0x7e }) >= 0 {
		return ""
	}
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

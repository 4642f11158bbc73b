package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries per-request identifiers and the negotiated language.
// Middleware fills it in stages; handlers only read it.
type RequestData struct {
	TraceID   string
	RequestID string
	Lang      string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// EnsureRequestData returns the RequestData on ctx, attaching a fresh one when
// there is none.
func EnsureRequestData(ctx context.Context) (context.Context, *RequestData) {
	if rd := GetRequestData(ctx); rd != nil {
		return ctx, rd
	}
	rd := &RequestData{}
	return WithRequestData(ctx, rd), rd
}

// Package reqctx carries the inbound HTTP request id through context.Context
// so it survives suspension at the engine-pipe call and shows up in every
// log line emitted during the request, without resorting to a goroutine-local
// or package-level mutable binding.
package reqctx

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying id for downstream loggers.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id bound to ctx, or "" outside request scope.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

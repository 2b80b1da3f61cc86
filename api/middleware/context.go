package middleware

import (
	"context"

	"github.com/andresreyes/spotlists-backend/pkg/visibility"
)

type contextKey string

const ctxRequestor contextKey = "requestor"

// RequestorFromContext returns the resolved requestor, or anonymous when
// no resolution middleware ran.
func RequestorFromContext(ctx context.Context) visibility.Requestor {
	if ctx == nil {
		return visibility.Anonymous()
	}
	if v, ok := ctx.Value(ctxRequestor).(visibility.Requestor); ok {
		return v
	}
	return visibility.Anonymous()
}

// WithRequestor injects the resolved requestor into the context.
func WithRequestor(ctx context.Context, requestor visibility.Requestor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRequestor, requestor)
}

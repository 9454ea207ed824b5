package settings

import (
	"context"
)

type contextKey struct{}

// IntoContext stores the run options in ctx.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the run options stored by IntoContext.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(contextKey{}).(*Run)
	return s, ok
}

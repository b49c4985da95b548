package session

import "context"

type ctxKey struct{}

// WithContext attaches a session to the context. Used by middleware
// that resolves the session before the handler runs.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to the context, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}

package conversation

import "context"

// ctxKey is the unexported context key type for the active conversation ID.
type ctxKey struct{}

// NewContext returns a context carrying the active conversation ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the conversation ID from the context, falling back to
// DefaultID when none was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultID
}

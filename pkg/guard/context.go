package guard

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

type contextKey struct{}

// WithContext stores the request view in ctx.
func WithContext(ctx context.Context, v *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the view stored by Middleware.
func FromContext(ctx context.Context) (*Request, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(contextKey{}).(*Request)
	return v, ok && v != nil
}

// FromRequest returns the sanitized view of r, reporting changes with the
// context of r. When the middleware is not
// mounted, a lazy view backed by sanitizer.Default() is returned so reads
// are still sanitized.
func FromRequest(r *http.Request) *Request {
	if v, ok := FromContext(r.Context()); ok {
		return v.bind(r.Context())
	}
	return NewRequest(r, sanitizer.Default())
}

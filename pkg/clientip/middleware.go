package clientip

import (
	"net/http"
	"slices"
)

// Middleware resolves the client IP from the given trusted headers and
// stores it in the request context. Without headers only RemoteAddr is used.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	headers = slices.Clone(headers)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), Resolve(r, headers))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package audit

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/inputguard/pkg/guard"
)

type requestInfoKey struct{}

type requestInfo struct {
	method    string
	path      string
	userAgent string
}

// Middleware stores the request method, path and user agent in the context
// so events recorded while handling the request carry them. The user agent
// is read through the guard view, so mount guard.Middleware first.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := requestInfo{
			method:    r.Method,
			path:      r.URL.Path,
			userAgent: guard.FromRequest(r).Header("User-Agent"),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))
	})
}

func infoFromContext(ctx context.Context) (requestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(requestInfo)
	return info, ok
}

// MethodFromContext returns the request method stored by Middleware.
func MethodFromContext(ctx context.Context) (string, bool) {
	info, ok := infoFromContext(ctx)
	return info.method, ok && info.method != ""
}

// PathFromContext returns the request path stored by Middleware.
func PathFromContext(ctx context.Context) (string, bool) {
	info, ok := infoFromContext(ctx)
	return info.path, ok && info.path != ""
}

// UserAgentFromContext returns the sanitized User-Agent header stored by
// Middleware.
func UserAgentFromContext(ctx context.Context) (string, bool) {
	info, ok := infoFromContext(ctx)
	return info.userAgent, ok && info.userAgent != ""
}

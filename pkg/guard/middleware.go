package guard

import (
	"net/http"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

// Middleware wraps every request in a sanitized view available through
// FromRequest. Mount it ahead of every other middleware that reads parameters
// or headers. A nil s uses sanitizer.Default().
//
// Without WithRewrite the request itself is left untouched: r.FormValue,
// r.URL.Query() and r.Header.Get keep returning raw input and only reads
// through the view are sanitized.
func Middleware(s *sanitizer.Sanitizer, opts ...Option) func(http.Handler) http.Handler {
	if s == nil {
		s = sanitizer.Default()
	}
	o := newOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := newRequest(r, s, o)
			r = r.WithContext(WithContext(r.Context(), v))
			v.r, v.ctx = r, r.Context()
			if o.rewrite {
				r = v.rewrite()
			}
			next.ServeHTTP(w, r)
		})
	}
}

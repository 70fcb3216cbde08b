package secheaders_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/pkg/secheaders"
)

const defaultCSP = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com; " +
	"img-src 'self' data: https:; " +
	"font-src 'self' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com; " +
	"connect-src 'self'; " +
	"frame-src 'none'; " +
	"object-src 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'; " +
	"frame-ancestors 'none';"

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := secheaders.DefaultPolicy()
	assert.Equal(t, defaultCSP, p.ContentSecurityPolicy())
	assert.Equal(t, map[string]string{
		"Content-Security-Policy": defaultCSP,
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "1; mode=block",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Permissions-Policy":      "geolocation=(), microphone=(), camera=()",
	}, p.Headers())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	mw := secheaders.Middleware(secheaders.DefaultPolicy())

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, status, rec.Code)
		assert.Equal(t, defaultCSP, rec.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "1; mode=block", rec.Header().Get("X-Xss-Protection"))
	}
}

func TestMiddlewareHandlerCanOverride(t *testing.T) {
	t.Parallel()

	handler := secheaders.Middleware(secheaders.DefaultPolicy())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	t.Run("overrides selected keys", func(t *testing.T) {
		t.Parallel()

		p, err := secheaders.ParsePolicy([]byte(`
csp:
  - name: default-src
    sources: ["'self'"]
  - name: img-src
    sources: ["'self'", "data:"]
csp_report_only: true
frame_options: SAMEORIGIN
xss_protection: ""
extra:
  Cross-Origin-Opener-Policy: same-origin
`))
		require.NoError(t, err)

		h := p.Headers()
		assert.Equal(t, "default-src 'self'; img-src 'self' data:;", h["Content-Security-Policy-Report-Only"])
		assert.NotContains(t, h, "Content-Security-Policy")
		assert.Equal(t, "SAMEORIGIN", h["X-Frame-Options"])
		assert.NotContains(t, h, "X-XSS-Protection")
		assert.Equal(t, "nosniff", h["X-Content-Type-Options"])
		assert.Equal(t, "same-origin", h["Cross-Origin-Opener-Policy"])
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		t.Parallel()

		p, err := secheaders.ParsePolicy(nil)
		require.NoError(t, err)
		assert.Equal(t, secheaders.DefaultPolicy(), p)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := secheaders.ParsePolicy([]byte("csp: [unclosed"))
		assert.ErrorIs(t, err, secheaders.ErrInvalidPolicy)
	})

	t.Run("directive without name", func(t *testing.T) {
		t.Parallel()

		_, err := secheaders.ParsePolicy([]byte("csp:\n  - sources: [\"'self'\"]\n"))
		assert.ErrorIs(t, err, secheaders.ErrInvalidPolicy)
		assert.ErrorIs(t, err, secheaders.ErrEmptyDirective)
	})
}

func TestLoadPolicy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("referrer_policy: no-referrer\n"), 0o600))

	p, err := secheaders.LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, "no-referrer", p.ReferrerPolicy)

	_, err = secheaders.LoadPolicy(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, secheaders.ErrLoadPolicy)

	p, err = secheaders.FromConfig(secheaders.Config{Enabled: true, PolicyFile: path})
	require.NoError(t, err)
	assert.Equal(t, "no-referrer", p.ReferrerPolicy)

	p, err = secheaders.FromConfig(secheaders.Config{})
	require.NoError(t, err)
	assert.Equal(t, secheaders.DefaultPolicy(), p)
}

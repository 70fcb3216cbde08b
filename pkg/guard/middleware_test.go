package guard_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

func newSanitizer(reporters ...sanitizer.Reporter) *sanitizer.Sanitizer {
	return sanitizer.New(
		sanitizer.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		sanitizer.WithReporters(reporters...),
	)
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request, fn func(r *http.Request)) {
	t.Helper()

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		fn(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.True(t, called, "handler was not called")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("handler observes cleaned form parameter", func(t *testing.T) {
		t.Parallel()

		form := url.Values{"content": {"<img src=x onerror=alert(1)>Hello"}}
		req := httptest.NewRequest(http.MethodPost, "/comments/preview", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			content := guard.FromRequest(r).Param("content")
			assert.Equal(t, "&lt;img src=x alert(1)&gt;Hello", content)
			assert.NotContains(t, content, "onerror=")
			assert.NotContains(t, content, "<")
			assert.NotContains(t, content, ">")
			assert.Contains(t, content, "Hello")
		})
	})

	t.Run("raw parameter is untouched", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/search?q="+url.QueryEscape("'; DROP TABLE users; --"), nil)

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			assert.Equal(t, "'; DROP TABLE users; --", v.RawParam("q"))
			assert.Equal(t, "&#39;; DROP TABLE users; --", v.Param("q"))
			assert.Same(t, r, v.Raw())
		})
	})

	t.Run("multiple values are cleaned individually", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?tag=go&tag=%3Cscript%3E&tag=", nil)

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			assert.Equal(t, []string{"go", "&lt;script&gt;", ""}, guard.FromRequest(r).Params("tag"))
		})
	})

	t.Run("absent values behave like net/http", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			assert.Equal(t, "", v.Param("missing"))
			assert.Nil(t, v.Params("missing"))
			assert.Equal(t, "", v.Header("X-Missing"))
			assert.Nil(t, v.HeaderValues("X-Missing"))
			assert.Empty(t, v.Values())
		})
	})

	t.Run("headers are cleaned", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Referer", "javascript:alert(document.cookie)")
		req.Header.Add("X-Tag", "<b>")
		req.Header.Add("X-Tag", "plain")

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			assert.Equal(t, "alert(document.cookie)", v.Header("referer"))
			assert.Equal(t, []string{"&lt;b&gt;", "plain"}, v.HeaderValues("x-tag"))
			assert.Equal(t, "javascript:alert(document.cookie)", r.Header.Get("Referer"))
		})
	})

	t.Run("body values take precedence over query", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/?name=query", strings.NewReader("name=body"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			assert.Equal(t, "body", v.Param("name"))
			assert.Equal(t, []string{"query"}, v.Query()["name"])
		})
	})

	t.Run("multipart form", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("content", "<script>x</script>"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", guard.FromRequest(r).Param("content"))
		})
	})

	t.Run("malformed body leaves pair absent", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/?b=1", strings.NewReader("a=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			assert.Equal(t, "", v.Param("a"))
			assert.Equal(t, "1", v.Param("b"))
		})
	})

	t.Run("nil sanitizer uses default", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?x=%3Cb%3E", nil)

		serve(t, guard.Middleware(nil), req, func(r *http.Request) {
			assert.Equal(t, "&lt;b&gt;", guard.FromRequest(r).Param("x"))
		})
	})
}

func TestLazyAndMemoizedViews(t *testing.T) {
	t.Parallel()

	read := func(t *testing.T, opts ...guard.Option) (values []string, reports int64) {
		t.Helper()

		var count atomic.Int64
		counter := sanitizer.ReporterFunc(func(context.Context, sanitizer.Change) { count.Add(1) })

		req := httptest.NewRequest(http.MethodGet, "/?content=%3Ci%3Ehi%3C%2Fi%3E", nil)
		serve(t, guard.Middleware(newSanitizer(counter), opts...), req, func(r *http.Request) {
			v := guard.FromRequest(r)
			for range 3 {
				values = append(values, v.Param("content"))
			}
		})
		return values, count.Load()
	}

	lazy, lazyReports := read(t)
	memo, memoReports := read(t, guard.WithMemoize())

	assert.Equal(t, lazy, memo)
	assert.Equal(t, []string{"&lt;i&gt;hi&lt;/i&gt;", "&lt;i&gt;hi&lt;/i&gt;", "&lt;i&gt;hi&lt;/i&gt;"}, lazy)
	assert.Equal(t, int64(3), lazyReports, "lazy view cleans on every read")
	assert.Equal(t, int64(1), memoReports, "memoized view cleans once per key")
}

func TestMemoizedValuesAreCopies(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?tag=a&tag=b", nil)
	serve(t, guard.Middleware(newSanitizer(), guard.WithConfig(guard.Config{Memoize: true})), req, func(r *http.Request) {
		v := guard.FromRequest(r)
		first := v.Params("tag")
		first[0] = "mutated"
		assert.Equal(t, []string{"a", "b"}, v.Params("tag"))
	})
}

func TestFromRequestWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?q=%3Cscript%3E", nil)

	_, ok := guard.FromContext(req.Context())
	assert.False(t, ok)
	assert.Equal(t, "&lt;script&gt;", guard.FromRequest(req).Param("q"))
}

func TestReporterReceivesField(t *testing.T) {
	t.Parallel()

	var got []sanitizer.Field
	rec := sanitizer.ReporterFunc(func(_ context.Context, c sanitizer.Change) { got = append(got, c.Field) })

	req := httptest.NewRequest(http.MethodGet, "/?content=%3Cb%3E", nil)
	req.Header.Set("x-custom", "<i>")

	serve(t, guard.Middleware(newSanitizer(rec)), req, func(r *http.Request) {
		v := guard.FromRequest(r)
		_ = v.Param("content")
		_ = v.Header("x-custom")
	})

	assert.Equal(t, []sanitizer.Field{
		{Source: sanitizer.SourceParam, Name: "content"},
		{Source: sanitizer.SourceHeader, Name: "X-Custom"},
	}, got)
}

func TestWithMaxFormMemoryPanicsOnInvalidValue(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { guard.Middleware(nil, guard.WithMaxFormMemory(0)) })
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	t.Run("standard accessors return cleaned values", func(t *testing.T) {
		t.Parallel()

		form := url.Values{"content": {"<img src=x onerror=alert(1)>Hello"}}
		req := httptest.NewRequest(http.MethodPost, "/comments?tag=%3Cb%3E&tag=plain", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Comment", "<script>alert(1)</script>")

		serve(t, guard.Middleware(newSanitizer(), guard.WithRewrite()), req, func(r *http.Request) {
			assert.Equal(t, "&lt;img src=x alert(1)&gt;Hello", r.FormValue("content"))
			assert.Equal(t, "&lt;img src=x alert(1)&gt;Hello", r.PostFormValue("content"))
			assert.Equal(t, []string{"&lt;b&gt;", "plain"}, r.URL.Query()["tag"])
			assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", r.Header.Get("X-Comment"))

			v := guard.FromRequest(r)
			assert.Equal(t, "&lt;img src=x alert(1)&gt;Hello", v.Param("content"))
			assert.Equal(t, "<img src=x onerror=alert(1)>Hello", v.RawParam("content"))
			assert.Equal(t, "<script>alert(1)</script>", v.Raw().Header.Get("X-Comment"))
		})
	})

	t.Run("multipart values", func(t *testing.T) {
		t.Parallel()

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("bio", `"quoted" javascript:x`))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/profile", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		serve(t, guard.Middleware(newSanitizer(), guard.WithRewrite()), req, func(r *http.Request) {
			assert.Equal(t, "&#34;quoted&#34; x", r.FormValue("bio"))
			require.NotNil(t, r.MultipartForm)
			assert.Equal(t, []string{"&#34;quoted&#34; x"}, r.MultipartForm.Value["bio"])
		})
	})

	t.Run("each value reported once", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		counter := sanitizer.ReporterFunc(func(context.Context, sanitizer.Change) { count.Add(1) })

		form := url.Values{"content": {"<i>x</i>"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		serve(t, guard.Middleware(newSanitizer(counter), guard.WithRewrite(), guard.WithMemoize()), req, func(r *http.Request) {
			_ = r.FormValue("content")
			_ = guard.FromRequest(r).Param("content")
		})
		assert.Equal(t, int64(1), count.Load())
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?q=%3Cb%3E", nil)
		req.Header.Set("X-Comment", "<script>")

		serve(t, guard.Middleware(newSanitizer()), req, func(r *http.Request) {
			assert.Equal(t, "<b>", r.FormValue("q"))
			assert.Equal(t, "<script>", r.Header.Get("X-Comment"))
			assert.Equal(t, "&lt;b&gt;", guard.FromRequest(r).Param("q"))
		})
	})
}

type traceKey struct{}

func TestViewReportsWithCallerContext(t *testing.T) {
	t.Parallel()

	var traces []any
	rec := sanitizer.ReporterFunc(func(ctx context.Context, _ sanitizer.Change) {
		traces = append(traces, ctx.Value(traceKey{}))
	})

	addTrace := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), traceKey{}, "trace-1")))
		})
	}
	chain := func(next http.Handler) http.Handler {
		return guard.Middleware(newSanitizer(rec))(addTrace(next))
	}

	req := httptest.NewRequest(http.MethodGet, "/?q=%3Cb%3E", nil)
	serve(t, chain, req, func(r *http.Request) {
		_ = guard.FromRequest(r).Param("q")
	})

	assert.Equal(t, []any{"trace-1"}, traces)
}

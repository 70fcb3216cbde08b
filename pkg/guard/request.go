package guard

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/textproto"
	"net/url"
	"sync"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

type memoKey struct {
	source sanitizer.Source
	name   string
}

// Request is a read-only view of an *http.Request whose parameters and
// headers are passed through Sanitizer.CleanField on every read.
//
// A view belongs to a single request. Without WithMemoize nothing is
// cached: each read re-derives the value from the raw request.
//
// Changes are reported with the context of the request the view was obtained
// from, so values read in a handler carry everything later middleware added
// to the context (request id, client IP).
type Request struct {
	r    *http.Request
	ctx  context.Context
	s    *sanitizer.Sanitizer
	opts options
	st   *viewState
}

// viewState is shared by every copy of a view bound to a different context.
type viewState struct {
	parseOnce sync.Once

	mu   sync.Mutex
	memo map[memoKey][]string
}

// NewRequest creates a lazy view of r outside of Middleware.
func NewRequest(r *http.Request, s *sanitizer.Sanitizer, opts ...Option) *Request {
	if s == nil {
		s = sanitizer.Default()
	}
	return newRequest(r, s, newOptions(opts))
}

func newRequest(r *http.Request, s *sanitizer.Sanitizer, o options) *Request {
	v := &Request{r: r, ctx: r.Context(), s: s, opts: o, st: &viewState{}}
	if o.memoize {
		v.st.memo = make(map[memoKey][]string)
	}
	return v
}

// bind returns a copy of v that reports changes with ctx.
func (v *Request) bind(ctx context.Context) *Request {
	c := *v
	c.ctx = ctx
	return &c
}

// Raw returns the underlying request. Values read from it are not sanitized.
func (v *Request) Raw() *http.Request {
	return v.r
}

// Param returns the first sanitized value of the query or form parameter
// name, or "" when it is absent. Body values take precedence over the query
// string, as with http.Request.FormValue.
func (v *Request) Param(name string) string {
	values := v.Params(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Params returns every sanitized value of the parameter, or nil when absent.
func (v *Request) Params(name string) []string {
	v.parseForm()
	return v.clean(sanitizer.SourceParam, name, v.r.Form[name])
}

// RawParam returns the first unsanitized value of the parameter. Use it only
// for allow-list validation, never for output.
func (v *Request) RawParam(name string) string {
	v.parseForm()
	return v.r.Form.Get(name)
}

// Values returns a sanitized copy of every query and form parameter.
func (v *Request) Values() url.Values {
	v.parseForm()
	out := make(url.Values, len(v.r.Form))
	for name := range v.r.Form {
		out[name] = v.Params(name)
	}
	return out
}

// Query returns a sanitized copy of the URL query parameters only.
func (v *Request) Query() url.Values {
	raw := v.r.URL.Query()
	out := make(url.Values, len(raw))
	for name, values := range raw {
		out[name] = v.cleanEach(sanitizer.SourceParam, name, values)
	}
	return out
}

// Header returns the first sanitized value of the header, or "" when absent.
func (v *Request) Header(name string) string {
	values := v.HeaderValues(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// HeaderValues returns every sanitized value of the header, or nil when absent.
func (v *Request) HeaderValues(name string) []string {
	key := textproto.CanonicalMIMEHeaderKey(name)
	return v.clean(sanitizer.SourceHeader, key, v.r.Header[key])
}

func (v *Request) clean(src sanitizer.Source, name string, raw []string) []string {
	if raw == nil {
		return nil
	}
	if v.st.memo == nil {
		return v.cleanEach(src, name, raw)
	}

	key := memoKey{source: src, name: name}
	v.st.mu.Lock()
	cached, ok := v.st.memo[key]
	v.st.mu.Unlock()
	if ok {
		return append([]string(nil), cached...)
	}

	cleaned := v.cleanEach(src, name, raw)
	v.remember(key, cleaned)
	return append([]string(nil), cleaned...)
}

func (v *Request) remember(key memoKey, cleaned []string) {
	if v.st.memo == nil {
		return
	}
	v.st.mu.Lock()
	v.st.memo[key] = cleaned
	v.st.mu.Unlock()
}

func (v *Request) cleanEach(src sanitizer.Source, name string, raw []string) []string {
	field := sanitizer.Field{Source: src, Name: name}
	out := make([]string, len(raw))
	for i, value := range raw {
		out[i] = v.s.CleanField(v.ctx, field, value)
	}
	return out
}

// parseForm parses the body once. A malformed body leaves the affected
// parameters absent.
func (v *Request) parseForm() {
	v.st.parseOnce.Do(func() {
		var err error
		if isMultipart(v.r) {
			err = v.r.ParseMultipartForm(v.opts.maxFormMemory)
		} else {
			err = v.r.ParseForm()
		}
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			v.opts.log.DebugContext(v.r.Context(), "guard: failed to parse request parameters",
				slog.String("method", v.r.Method),
				slog.String("path", v.r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		if v.r.Form == nil {
			v.r.Form = url.Values{}
		}
	})
}

func isMultipart(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "multipart/form-data"
}

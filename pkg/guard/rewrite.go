package guard

import (
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

type rawKey struct {
	source sanitizer.Source
	name   string
	value  string
}

// rewriter cleans each distinct (source, name, value) once, so a value that
// appears in both Form and PostForm is reported once.
type rewriter struct {
	v    *Request
	seen map[rawKey]string
}

func (rw *rewriter) clean(src sanitizer.Source, name string, raw []string) []string {
	if raw == nil {
		return nil
	}
	field := sanitizer.Field{Source: src, Name: name}
	out := make([]string, len(raw))
	for i, value := range raw {
		key := rawKey{source: src, name: name, value: value}
		cleaned, ok := rw.seen[key]
		if !ok {
			cleaned = rw.v.s.CleanField(rw.v.ctx, field, value)
			rw.seen[key] = cleaned
		}
		out[i] = cleaned
	}
	return out
}

func (rw *rewriter) values(src sanitizer.Source, in url.Values) url.Values {
	if in == nil {
		return nil
	}
	out := make(url.Values, len(in))
	for name, raw := range in {
		out[name] = rw.clean(src, name, raw)
	}
	return out
}

// rewrite returns a clone of the view's request carrying cleaned parameters
// and headers. The view keeps the raw request for RawParam and Raw.
func (v *Request) rewrite() *http.Request {
	v.parseForm()
	raw := v.r
	rw := &rewriter{v: v, seen: make(map[rawKey]string)}

	out := raw.Clone(v.ctx)
	out.Form = rw.values(sanitizer.SourceParam, raw.Form)
	out.PostForm = rw.values(sanitizer.SourceParam, raw.PostForm)
	if raw.MultipartForm != nil {
		out.MultipartForm = &multipart.Form{
			Value: map[string][]string(rw.values(sanitizer.SourceParam, raw.MultipartForm.Value)),
			File:  maps.Clone(raw.MultipartForm.File),
		}
	}
	if raw.URL.RawQuery != "" {
		u := *raw.URL
		u.RawQuery = rw.values(sanitizer.SourceParam, raw.URL.Query()).Encode()
		out.URL = &u
	}

	out.Header = make(http.Header, len(raw.Header))
	for name, values := range raw.Header {
		out.Header[name] = rw.clean(sanitizer.SourceHeader, name, values)
	}

	for name, cleaned := range out.Form {
		v.remember(memoKey{source: sanitizer.SourceParam, name: name}, slices.Clone(cleaned))
	}
	for name, cleaned := range out.Header {
		v.remember(memoKey{source: sanitizer.SourceHeader, name: name}, slices.Clone(cleaned))
	}
	return out
}

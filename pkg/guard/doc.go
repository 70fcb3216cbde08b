// Package guard sanitizes request parameters and headers at the HTTP
// boundary.
//
// Middleware stores a *Request view in the request context. Every read
// through the view (Param, Params, Values, Query, Header, HeaderValues)
// passes the raw value through sanitizer.Sanitizer.CleanField, so handlers
// observe escaped, script-free strings without calling the sanitizer
// themselves:
//
//	r := chi.NewRouter()
//	r.Use(guard.Middleware(s))
//	r.Post("/comments/preview", func(w http.ResponseWriter, r *http.Request) {
//	    content := guard.FromRequest(r).Param("content")
//	})
//
// Cleaning is lazy: values are processed when read, not when the request
// arrives. WithMemoize caches cleaned values for the lifetime of the request.
//
// The request handed to the next handler is unchanged by default, so
// r.FormValue, r.URL.Query() and r.Header.Get return raw input. WithRewrite
// replaces the request's form, query and headers with cleaned copies for
// handlers that use the standard accessors; the view still reads the raw
// request.
//
// RawParam and Raw expose the unsanitized input for allow-list validators
// such as sanitizer.KeywordValidator, which must see the original value.
//
// BindQuery and BindForm decode sanitized parameters into tagged structs.
package guard

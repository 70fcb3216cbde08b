// Package clientip resolves the address of the client behind an HTTP
// request.
//
// Resolve walks a list of trusted proxy headers and falls back to
// RemoteAddr. Only values that parse as plain IPv4 or IPv6 addresses are
// accepted, so header injection payloads never reach logs or audit
// records. Middleware stores the result in the request context.
//
//	r.Use(clientip.Middleware(cfg.Headers...))
//	rec := audit.NewRecorder(store, audit.WithIPExtractor(clientip.Extractor()))
package clientip

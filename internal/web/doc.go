// Package web is the demo HTTP API showing the input guard in use.
//
// GET /search validates the raw q, sort and dir parameters with the keyword
// validator and answers 422 with per-field errors when they are unsafe.
// POST /comments/preview binds the sanitized form and echoes it. When an
// audit reader is configured, GET /audit/events lists recent sanitization
// events. /healthz, /readyz and /metrics support operations.
package web

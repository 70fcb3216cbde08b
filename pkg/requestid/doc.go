// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reads X-Request-ID, replaces missing or malformed values with a
// fresh UUID, stores the id in the request context and echoes it back.
// FromContext reads it; Extractor and LoggerExtractor feed it into audit
// events and log records.
//
//	r.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	rec := audit.NewRecorder(store, audit.WithRequestIDExtractor(requestid.Extractor()))
package requestid

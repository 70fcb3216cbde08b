package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/inputguard/pkg/audit"
	"github.com/dmitrymomot/inputguard/pkg/clientip"
	"github.com/dmitrymomot/inputguard/pkg/guard"
	"github.com/dmitrymomot/inputguard/pkg/httpserver"
	"github.com/dmitrymomot/inputguard/pkg/requestid"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
	"github.com/dmitrymomot/inputguard/pkg/secheaders"
)

// Deps are the collaborators of the demo API. Sanitizer is required; the
// rest fall back to defaults or disable their route when nil.
type Deps struct {
	Log       *slog.Logger
	Sanitizer *sanitizer.Sanitizer
	Keywords  *sanitizer.KeywordValidator
	Searcher  Searcher
	Policy    *secheaders.Policy
	Guard     []guard.Option
	// ClientIPHeaders are the trusted proxy headers; empty means RemoteAddr only.
	ClientIPHeaders []string
	Metrics         http.Handler
	Events          audit.Reader
	Readiness       []httpserver.Check
}

// NewRouter wires the middleware chain and the demo routes.
func NewRouter(d Deps) http.Handler {
	if d.Sanitizer == nil {
		panic("web: sanitizer is required")
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Keywords == nil {
		d.Keywords = sanitizer.NewKeywordValidator(d.Sanitizer)
	}
	if d.Searcher == nil {
		d.Searcher = NewMemorySearcher(DemoPosts())
	}

	h := &handlers{
		log:       d.Log,
		sanitizer: d.Sanitizer,
		keywords:  d.Keywords,
		searcher:  d.Searcher,
		events:    d.Events,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// Sanitization comes before every middleware that reads the request.
	r.Use(guard.Middleware(d.Sanitizer, append([]guard.Option{guard.WithLogger(d.Log)}, d.Guard...)...))
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(d.ClientIPHeaders...))
	r.Use(audit.Middleware)
	r.Use(accessLog(d.Log))
	if d.Policy != nil {
		r.Use(secheaders.Middleware(*d.Policy))
	}

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(d.Log, d.Readiness...))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Get("/search", h.handle(h.search))
	r.Post("/comments/preview", h.handle(h.previewComment))
	if d.Events != nil {
		r.Get("/audit/events", h.handle(h.auditEvents))
	}

	r.NotFound(h.handle(func(*http.Request) Response { return JSONError(ErrNotFound) }))
	return r
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.DebugContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

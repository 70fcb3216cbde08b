package guard

import "log/slog"

// DefaultMaxFormMemory is the multipart memory limit used when parsing form bodies.
const DefaultMaxFormMemory = 32 << 20

// Config holds environment driven settings for the middleware.
type Config struct {
	Memoize       bool  `env:"GUARD_MEMOIZE" envDefault:"false"`               // Memoize caches cleaned values per key for the lifetime of one request.
	MaxFormMemory int64 `env:"GUARD_MAX_FORM_MEMORY" envDefault:"33554432"` // MaxFormMemory bounds multipart parsing held in memory.
	Rewrite       bool  `env:"GUARD_REWRITE" envDefault:"false"`            // Rewrite replaces the request's form, query and headers with cleaned copies.
}

type options struct {
	memoize       bool
	maxFormMemory int64
	rewrite       bool
	log           *slog.Logger
}

// Option configures the middleware and the views it creates.
type Option func(*options)

// WithMemoize caches each cleaned parameter and header inside the request
// view, so repeated reads of the same key run the transform once. The cache
// never outlives the request.
func WithMemoize() Option {
	return func(o *options) {
		o.memoize = true
	}
}

// WithRewrite makes the middleware hand the next handler a request whose
// Form, PostForm, multipart values, URL query and Header hold cleaned values,
// so r.FormValue, r.URL.Query() and r.Header.Get return sanitized strings.
// Every parameter and header is cleaned when the request arrives, with the
// context available at that point. The view keeps reading the raw request.
func WithRewrite() Option {
	return func(o *options) {
		o.rewrite = true
	}
}

// WithMaxFormMemory sets the multipart memory limit.
func WithMaxFormMemory(n int64) Option {
	return func(o *options) {
		if n <= 0 {
			panic("guard: max form memory must be positive")
		}
		o.maxFormMemory = n
	}
}

// WithLogger sets the logger used for body parsing failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithConfig applies the values of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.memoize = cfg.Memoize
		o.rewrite = cfg.Rewrite
		if cfg.MaxFormMemory > 0 {
			o.maxFormMemory = cfg.MaxFormMemory
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxFormMemory: DefaultMaxFormMemory}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

package sanitizer

import "log/slog"

// DefaultMaxInputLength caps the size of values evaluated against the
// pattern library. Longer values are escaped only.
const DefaultMaxInputLength = 64 << 10

// Config holds environment driven settings for a Sanitizer.
type Config struct {
	MaxInputLength int `env:"SANITIZER_MAX_INPUT_LENGTH" envDefault:"65536"` // MaxInputLength is the largest value (in bytes) run through pattern stripping; 0 disables the cap.
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLibrary uses an already built pattern library. Nil is ignored.
func WithLibrary(l *Library) Option {
	return func(s *Sanitizer) {
		if l != nil {
			s.lib = l
		}
	}
}

// WithLogger sets the logger used for internal failures and change logging.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Sanitizer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReporters registers reporters notified about every altered value, in
// addition to the built-in log reporter. Nil reporters are skipped.
func WithReporters(reporters ...Reporter) Option {
	return func(s *Sanitizer) {
		for _, r := range reporters {
			if r != nil {
				s.reporters = append(s.reporters, r)
			}
		}
	}
}

// WithMaxInputLength overrides DefaultMaxInputLength. Zero or negative
// disables the cap.
func WithMaxInputLength(n int) Option {
	return func(s *Sanitizer) {
		s.maxInputLength = n
	}
}

// WithConfig applies the values of cfg.
func WithConfig(cfg Config) Option {
	return func(s *Sanitizer) {
		s.maxInputLength = cfg.MaxInputLength
	}
}

package sanitizer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

var (
	defaultLibrary   = sync.OnceValue(NewLibrary)
	defaultSanitizer = sync.OnceValue(func() *Sanitizer { return New() })
)

// Default returns a process-wide Sanitizer built with default options.
func Default() *Sanitizer {
	return defaultSanitizer()
}

// Sanitizer classifies and cleans untrusted strings using a pattern Library.
// It holds no mutable state after construction and is safe for concurrent use.
type Sanitizer struct {
	lib            *Library
	log            *slog.Logger
	reporters      []Reporter
	maxInputLength int
}

// New creates a Sanitizer. Without WithLibrary the shared built-in library
// is used, so repeated calls do not recompile the rules.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{maxInputLength: DefaultMaxInputLength}
	for _, opt := range opts {
		opt(s)
	}
	if s.lib == nil {
		s.lib = defaultLibrary()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.reporters = append([]Reporter{LogReporter(s.log)}, s.reporters...)
	return s
}

// Library returns the pattern library used by s.
func (s *Sanitizer) Library() *Library {
	return s.lib
}

// IsDangerous reports whether the whole trimmed, lower-cased value matches
// a SQL-injection rule. Blank input is never dangerous.
func (s *Sanitizer) IsDangerous(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	return s.lib.Match(value, FamilySQL)
}

// ContainsAttack reports whether any substring of value matches a
// script-injection rule.
func (s *Sanitizer) ContainsAttack(value string) bool {
	if value == "" {
		return false
	}
	return s.lib.Match(value, FamilyScript)
}

// Clean escapes and strips value. See CleanField.
func (s *Sanitizer) Clean(value string) string {
	return s.CleanField(context.Background(), Field{Source: SourceValue}, value)
}

// CleanContext is Clean with a context passed through to reporters.
func (s *Sanitizer) CleanContext(ctx context.Context, value string) string {
	return s.CleanField(ctx, Field{Source: SourceValue}, value)
}

// CleanField makes value safe to store and redisplay:
//
//  1. empty input is returned unchanged;
//  2. & < > " ' are escaped to entities;
//  3. every script-injection match is removed from the escaped text;
//  4. NUL bytes are removed;
//  5. reporters are notified when the result differs from the input.
//
// Step 3 runs on escaped text, so tag-shaped rules rarely fire; the escaping
// in step 2 is what neutralises markup. Scheme and call rules such as
// "javascript:" and "eval(" still apply.
//
// CleanField never panics. Values longer than the configured input cap, or
// values that trigger an internal failure, are escaped without stripping.
func (s *Sanitizer) CleanField(ctx context.Context, f Field, value string) string {
	if value == "" {
		return value
	}

	cleaned, fallback := s.transform(ctx, value)
	if cleaned != value {
		s.notify(ctx, Change{
			Field:    f,
			Original: value,
			Cleaned:  cleaned,
			Families: s.lib.Matches(value),
			Fallback: fallback,
		})
	}
	return cleaned
}

func (s *Sanitizer) transform(ctx context.Context, value string) (out string, fallback bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "sanitizer: clean failed, falling back to escaping", slog.Any("panic", r))
			out, fallback = RemoveNullBytes(EscapeHTML(value)), true
		}
	}()

	// The cap applies to the escaped text so that feeding a fallback result
	// back in takes the fallback path again.
	escaped := RemoveNullBytes(EscapeHTML(value))
	if s.maxInputLength > 0 && len(escaped) > s.maxInputLength {
		return escaped, true
	}
	return s.strip(escaped), false
}

// strip applies the script patterns and NUL removal until the value stops
// changing, so a removal cannot leave a freshly joined match behind.
// A pass that changes the value makes it shorter, so the loop ends after at
// most len(v) changing passes.
func (s *Sanitizer) strip(v string) string {
	for {
		next := RemoveNullBytes(s.lib.strip(v))
		if next == v {
			return v
		}
		v = next
	}
}

func (s *Sanitizer) notify(ctx context.Context, c Change) {
	for _, r := range s.reporters {
		s.report(ctx, r, c)
	}
}

func (s *Sanitizer) report(ctx context.Context, r Reporter, c Change) {
	defer func() {
		if p := recover(); p != nil {
			s.log.ErrorContext(ctx, "sanitizer: reporter failed", slog.Any("panic", p))
		}
	}()
	r.ReportChange(ctx, c)
}

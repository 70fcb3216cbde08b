package sanitizer

import (
	"context"
	"log/slog"
)

// Source identifies where a sanitized value came from.
type Source string

const (
	SourceParam  Source = "param"
	SourceHeader Source = "header"
	SourceValue  Source = "value"
)

// Field describes the request field a value was read from.
type Field struct {
	Source Source
	Name   string
}

// Change is emitted whenever Clean alters a value.
type Change struct {
	Field    Field
	Original string
	Cleaned  string
	// Families lists the attack families recognised in the original value.
	// Empty when only baseline escaping changed the value. Detection folds
	// Unicode compatibility forms while removal works on the text as sent, so
	// a family can be listed for a value that escaping alone changed (for
	// example full-width "ｊａｖａｓｃｒｉｐｔ：" next to an ampersand).
	Families []Family
	// Fallback is set when pattern stripping was skipped and only escaping
	// was applied (oversized input or an internal failure).
	Fallback bool
}

// Attack reports whether the original value was classified as an attack.
func (c Change) Attack() bool {
	return len(c.Families) > 0
}

// Reporter receives Change notifications. Implementations must not block:
// they run inline on the request goroutine.
type Reporter interface {
	ReportChange(ctx context.Context, c Change)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, c Change)

func (f ReporterFunc) ReportChange(ctx context.Context, c Change) { f(ctx, c) }

// LogReporter writes every change to log. Attacks are logged at warn level,
// plain escaping at debug level.
func LogReporter(log *slog.Logger) Reporter {
	return ReporterFunc(func(ctx context.Context, c Change) {
		level := slog.LevelDebug
		msg := "input escaped"
		if c.Attack() {
			level = slog.LevelWarn
			msg = "injection pattern detected"
		}
		log.Log(ctx, level, msg,
			slog.String("source", string(c.Field.Source)),
			slog.String("field", c.Field.Name),
			slog.String("original", c.Original),
			slog.String("cleaned", c.Cleaned),
			slog.Any("families", c.Families),
			slog.Bool("fallback", c.Fallback),
		)
	})
}

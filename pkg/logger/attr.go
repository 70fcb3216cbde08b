package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Component names the subsystem writing the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request correlation id.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Field records the request field a value was read from.
func Field(source, name string) slog.Attr {
	return slog.Group("field", slog.String("source", source), slog.String("name", name))
}

// Families records the attack families detected in a value.
func Families[T ~string](families []T) slog.Attr {
	out := make([]string, len(families))
	for i, f := range families {
		out[i] = string(f)
	}
	return slog.Any("families", out)
}

// Duration records d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d)/float64(time.Millisecond))
}

// Addr records a listen address.
func Addr(addr string) slog.Attr {
	return slog.String("addr", addr)
}

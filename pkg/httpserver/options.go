package httpserver

import (
	"context"
	"log/slog"
	"net"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithListener serves on l instead of listening on Config.Addr.
func WithListener(l net.Listener) Option {
	if l == nil {
		panic("httpserver: nil listener")
	}
	return func(s *Server) { s.listener = l }
}

// WithShutdownHook registers fn to run after the HTTP server stops
// accepting requests, in registration order. It receives the shutdown
// context; its error is reported by Run.
func WithShutdownHook(fn func(ctx context.Context) error) Option {
	if fn == nil {
		panic("httpserver: nil shutdown hook")
	}
	return func(s *Server) { s.hooks = append(s.hooks, fn) }
}

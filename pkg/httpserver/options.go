package httpserver

import (
	"context"
	"log/slog"
)

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShutdownHook registers a function run after the listener is closed and
// in-flight requests have drained, in registration order. Typical use is
// stopping background workers such as session sweeps.
func WithShutdownHook(fn func(context.Context) error) Option {
	return func(s *Server) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

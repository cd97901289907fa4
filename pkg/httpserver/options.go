package httpserver

import "log/slog"

// Option adjusts server behavior beyond what Config carries.
type Option func(*Server)

// WithLogger supplies the logger handed to lifecycle hooks. Defaults to
// slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStartHook registers a callback invoked after the listener is
// bound, before the first request is served.
func WithStartHook(hook func(*slog.Logger)) Option {
	return func(s *Server) {
		if hook != nil {
			s.startHooks = append(s.startHooks, hook)
		}
	}
}

// WithStopHook registers a callback invoked after the server has
// drained.
func WithStopHook(hook func(*slog.Logger)) Option {
	return func(s *Server) {
		if hook != nil {
			s.stopHooks = append(s.stopHooks, hook)
		}
	}
}

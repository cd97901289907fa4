package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// defaultShutdownTimeout applies when a hand-built Config leaves the
// window unset.
const defaultShutdownTimeout = 5 * time.Second

// Config carries the listener settings. The defaults suit a JSON API
// behind a reverse proxy.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Server serves HTTP until its context is canceled. It owns no signal
// handling; cancel the Run context to stop it.
type Server struct {
	cfg        Config
	log        *slog.Logger
	startHooks []func(*slog.Logger)
	stopHooks  []func(*slog.Logger)
}

// New returns a Server for cfg.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Run binds the configured address, serves handler until ctx is
// canceled, then drains in-flight requests within ShutdownTimeout.
// Bind failures surface immediately rather than from a goroutine, so a
// port conflict fails startup instead of logging into the void. Errors
// wrap ErrStart or ErrShutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	for _, hook := range s.startHooks {
		hook(s.log)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	window := s.cfg.ShutdownTimeout
	if window <= 0 {
		window = defaultShutdownTimeout
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), window)
	defer cancel()

	err = srv.Shutdown(drainCtx)
	// Serve returns ErrServerClosed once Shutdown begins; reap the
	// goroutine before running stop hooks.
	<-serveErr

	for _, hook := range s.stopHooks {
		hook(s.log)
	}

	if err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

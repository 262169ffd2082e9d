package server

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/go-screenly/internal/config"
	"github.com/MKhiriev/go-screenly/internal/handler"
	"github.com/MKhiriev/go-screenly/internal/logger"
)

type server struct {
	httpServer      *httpServer
	address         string
	shutdownTimeout time.Duration
	hooks           []ShutdownHook
	shutdownOnce    sync.Once
	logger          *logger.Logger
}

// Option customises the server.
type Option func(*server)

// WithShutdownHook registers fn to run during shutdown.
func WithShutdownHook(name string, fn func(ctx context.Context) error) Option {
	return func(s *server) {
		s.hooks = append(s.hooks, ShutdownHook{Name: name, Fn: fn})
	}
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, opts ...Option) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	s := &server{
		httpServer:      newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		address:         cfg.HTTPAddress,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

// Shutdown stops the HTTP server and then runs every hook, each bounded by
// ctx. It only acts once.
func (s *server) Shutdown(ctx context.Context) {
	s.shutdownOnce.Do(func() {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown failed")
		}

		for _, hook := range s.hooks {
			if err := hook.Fn(ctx); err != nil {
				s.logger.Error().Err(err).Str("hook", hook.Name).Msg("shutdown hook failed")
				continue
			}
			s.logger.Debug().Str("hook", hook.Name).Msg("shutdown hook done")
		}
	})
}

// run serves until ctx is done, then shuts down within shutdownTimeout.
func (s *server) run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}
	return s.serve(ctx, ln)
}

func (s *server) serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.RunServer(ln)
	}()

	var runErr error
	stopped := false
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown signal received")
	case runErr = <-serveErr:
		stopped = true
	}

	shutdownCtx := context.Background()
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.shutdownTimeout)
		defer cancel()
	}
	s.Shutdown(shutdownCtx)

	if !stopped {
		runErr = <-serveErr
	}
	if runErr != nil {
		return runErr
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

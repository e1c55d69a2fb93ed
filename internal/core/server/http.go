// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spatialworks/geosniff/internal/core/config"
	"golang.org/x/sync/errgroup"
)

// HTTPServer manages the HTTP server lifecycle: bind, serve, drain.
type HTTPServer struct {
	server *http.Server
	cfg    *config.ServiceConfig
	log    zerolog.Logger

	mu   sync.Mutex
	addr string
}

// NewHTTPServer creates the server around an assembled handler.
func NewHTTPServer(cfg *config.ServiceConfig, handler http.Handler, log zerolog.Logger) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
			// No WriteTimeout. A detection against a slow endpoint
			// legitimately spans several fetch attempts; the per-fetch
			// client timeout bounds the work instead.
		},
		cfg: cfg,
		log: log,
	}, nil
}

// Run binds the listener and serves until ctx is cancelled, then drains
// in-flight requests within the configured shutdown grace period.
func (s *HTTPServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.server.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()
	s.log.Info().Str("addr", s.addr).Msg("listening")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info().Dur("grace", s.cfg.ShutdownGrace).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.server.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Addr returns the bound listen address, or "" before Run has bound it.
// With a configured port of 0 this is the only way to learn the real port.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

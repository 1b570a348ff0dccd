package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fadedpez/leetbot/internal/logging"
)

// Server wraps the HTTP listener
type Server struct {
	http   *http.Server
	logger *logging.Logger
}

// New creates a server for the given routes
func New(addr string, routes http.Handler, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           routes,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background. Errors other than a clean shutdown are
// delivered on the returned channel.
func (s *Server) Start() <-chan error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()
	return errs
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

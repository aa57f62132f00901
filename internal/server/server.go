// Package server exposes the quote service over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/everstacklabs/tokencalc/internal/quote"
)

// maxBodyBytes bounds request bodies; prompts larger than this are rejected.
const maxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	Addr string
	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

// Server serves the tokencalc HTTP API.
type Server struct {
	svc       *quote.Service
	opts      Options
	limiter   *rate.Limiter
	logger    *slog.Logger
	httpSrv   *http.Server
	startedAt time.Time
	isRunning atomic.Bool
}

// New creates a Server backed by svc.
func New(svc *quote.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	s := &Server{
		svc:       svc,
		opts:      opts,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Handler returns the API routes wrapped in request-id, logging, and rate
// limiting middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/providers", s.handleProviders)
	mux.HandleFunc("GET /v1/providers/{provider}/models", s.handleModels)
	mux.HandleFunc("GET /v1/models/cheapest", s.handleCheapest)
	mux.HandleFunc("POST /v1/estimate", s.handleEstimate)
	mux.HandleFunc("POST /v1/quote", s.handleQuote)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)

	return s.withRequestID(s.withAccessLog(s.withRateLimit(mux)))
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.startedAt = time.Now().UTC()
	s.httpSrv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.isRunning.Store(true)
		s.logger.Info("listening", "addr", s.Addr())
		err := s.httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown failed", "error", err)
			return err
		}
		return nil
	case err := <-errCh:
		s.isRunning.Store(false)
		if err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
		return nil
	}
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	err := s.httpSrv.Shutdown(ctx)
	s.isRunning.Store(false)
	if err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mohammedhabas11/vhost-inspector/pkg/config"
	"github.com/mohammedhabas11/vhost-inspector/pkg/vhost"
)

// Resolver resolves a domain to its parsed site configuration.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (*vhost.ParseResult, error)
}

type Server struct {
	initialConfig *config.Config
	resolver      Resolver
	gatherer      prometheus.Gatherer
	logger        logrus.FieldLogger

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a new Server instance but doesn't start it yet.
// A nil gatherer disables the metrics endpoint.
func NewServer(cfg *config.Config, resolver Resolver, gatherer prometheus.Gatherer, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		initialConfig: cfg,
		resolver:      resolver,
		gatherer:      gatherer,
		logger:        logger.WithField("component", "httpserver"),
	}
}

// createRootHandler builds the router and wraps it with access logging,
// compression and panic recovery.
func (s *Server) createRootHandler(cfg *config.Config) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.handleNoRoute)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc(ResolutionRoutePrefix+"/{"+domainParam+"}", s.handleResolution).Methods(http.MethodGet)
	r.HandleFunc(FlushCacheRoute, s.handleFlushCache).Methods(http.MethodGet)

	if cfg.Metrics.Enabled && s.gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
		s.logger.Infof("Metrics exposed on %s", cfg.Metrics.Path)
	} else {
		s.logger.Info("Metrics endpoint is disabled.")
	}

	var h http.Handler = r
	if cfg.Logging.AccessLog {
		h = accessLogMiddleware(h, s.logger)
	}
	h = handlers.CompressHandler(h)
	return handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
		handlers.RecoveryLogger(s.logger),
	)(h)
}

// Start runs the HTTP server. It takes a context for graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.initialConfig

	if !cfg.HTTP.Enabled {
		return fmt.Errorf("HTTP server is disabled")
	}

	readTimeout, err := cfg.HTTP.GetReadTimeout()
	if err != nil {
		return err
	}
	writeTimeout, err := cfg.HTTP.GetWriteTimeout()
	if err != nil {
		return err
	}
	idleTimeout, err := cfg.HTTP.GetIdleTimeout()
	if err != nil {
		return err
	}

	addr := cfg.HTTP.ListenAddr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.createRootHandler(cfg),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("ListenAndServe failed on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received by HTTP server...")
		return s.Stop()
	}
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()

	if srv == nil {
		s.logger.Debug("Server Stop() called but server was not running or already stopped.")
		return nil
	}

	shutdownTimeout, err := s.initialConfig.HTTP.GetShutdownTimeout()
	if err != nil {
		shutdownTimeout = 15 * time.Second
	}

	s.logger.Infof("Attempting to stop server on %s gracefully...", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed for %s: %w", srv.Addr, err)
	}

	s.logger.Infof("Server on %s stopped gracefully.", srv.Addr)
	return nil
}

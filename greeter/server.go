package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort = 8000
	helloBody   = "<p>Hello, World!</p>"

	_shutdownTimeout = 5 * time.Second
)

type ServerConfig struct {
	Port  int
	Debug bool
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:  defaultPort,
		Debug: true,
	}
}

type server struct {
	cfg ServerConfig
	log *logrus.Logger
}

func NewServer(cfg ServerConfig) server {
	return NewServerWithLogger(cfg, logrus.New())
}

func NewServerWithLogger(cfg ServerConfig, logger *logrus.Logger) server {
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return server{
		cfg: cfg,
		log: logger,
	}
}

func (s server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}

// routes only registers GET /. Unknown paths and methods fall through to
// chi's 404 and 405 handlers.
func (s server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.cfg.Debug {
		r.Use(s.logRequests)
	}
	r.Get("/", s.handleHello)
	return r
}

func (s server) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, helloBody)
}

func (s server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		}).Debug("request")
	})
}

// Run binds the configured port and serves until ctx is cancelled.
func (s server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

func (s server) Serve(ctx context.Context, ln net.Listener) error {
	httpserver := &http.Server{
		Handler: s.routes(),
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Starting HTTP server on %s", ln.Addr())
		errc <- httpserver.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), _shutdownTimeout)
	defer cancel()
	return httpserver.Shutdown(shutdownCtx)
}

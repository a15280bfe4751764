// Package server serves the built single-page frontend.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Responses for requests the frontend cannot answer.
const (
	NotFoundBody = "Not found"
	NotBuiltBody = "Frontend not built. Please run npm run build first."
)

const shutdownTimeout = 5 * time.Second

// Server serves files from a build directory and falls back to index.html
// for client-side routes.
type Server struct {
	fsys    fs.FS
	logger  *slog.Logger
	metrics *metrics
	reg     *prometheus.Registry
	handler http.Handler
	tls     *tls.Config
}

// New creates a server for the build output in dist.
func New(dist string, logger *slog.Logger) *Server {
	return NewFS(os.DirFS(dist), logger)
}

// NewFS creates a server over fsys.
func NewFS(fsys fs.FS, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		fsys:    fsys,
		logger:  logger,
		reg:     reg,
		metrics: newMetrics(reg),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.serveFrontend)

	s.handler = s.logRequests(securityHeaders(mux))
	return s
}

// UseTLS makes ListenAndServe serve HTTPS with cert.
func (s *Server) UseTLS(cert tls.Certificate) {
	s.tls = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         s.tls,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.tls != nil {
			s.logger.Info("Server is running", "addr", addr, "tls", true)
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		s.logger.Info("Server is running", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) serveFrontend(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, NotFoundBody, http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, NotFoundBody, http.StatusNotFound)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	if s.servable(name) {
		http.FileServerFS(s.fsys).ServeHTTP(w, r)
		return
	}

	s.serveIndex(w, r)
}

// servable reports whether name is a file, or a directory with an index.html.
func (s *Server) servable(name string) bool {
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = fs.Stat(s.fsys, path.Join(name, "index.html"))
	return err == nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	index, err := fs.ReadFile(s.fsys, "index.html")
	if err != nil {
		http.Error(w, NotBuiltBody, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(index); err != nil {
		s.logger.Debug("Failed to write index.html", "error", err)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

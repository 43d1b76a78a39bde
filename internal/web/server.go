// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the lookup form, the results table, and the operational
// endpoints (/healthz, /metrics).
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/clingen/internal/logging"
	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Messages shown by the form and error pages.
const (
	MsgEmptyGene   = "Please enter a gene symbol."
	MsgServiceDown = "The MouseMine service could not be reached. Please try again later."
)

const (
	defaultReadTimeout = 30 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// Looker runs a lookup. *lookup.Service implements it.
type Looker interface {
	Lookup(ctx context.Context, gene types.GeneSymbol, opts types.FilterOptions) (*lookup.Outcome, error)
}

// Saver stores a completed lookup. *archive.Store implements it.
type Saver interface {
	Save(ctx context.Context, out *lookup.Outcome) (int64, error)
}

// Server handles the lookup pages.
type Server struct {
	looker  Looker
	saver   Saver
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithArchive saves every lookup that found publications.
func WithArchive(s Saver) Option {
	return func(srv *Server) { srv.saver = s }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(srv *Server) { srv.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// NewServer returns a Server that answers lookups with l.
func NewServer(l Looker, opts ...Option) *Server {
	s := &Server{looker: l, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, logged handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleLookup)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.logRequests(mux)
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg types.ServerConfig) error {
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "form.html", formView{})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "form.html", formView{Error: "Malformed form submission."})
		return
	}
	opts := types.FilterOptionsFromForm(r.PostForm)
	raw := r.PostForm.Get(types.FormGene)

	gene, err := types.NormalizeGene(raw)
	if err != nil {
		s.render(w, http.StatusBadRequest, "form.html", formView{Gene: raw, Options: opts, Error: MsgEmptyGene})
		return
	}

	out, err := s.looker.Lookup(r.Context(), gene, opts)
	if err != nil {
		s.logger.Error("lookup failed", "gene", gene, "error", err)
		s.render(w, http.StatusBadGateway, "error.html", messageView{Gene: gene.String(), Message: MsgServiceDown})
		return
	}

	if msg := out.Message(); msg != "" {
		s.render(w, http.StatusOK, "error.html", messageView{Gene: gene.String(), Message: msg})
		return
	}

	if s.saver != nil {
		if id, err := s.saver.Save(r.Context(), out); err != nil {
			s.logger.Warn("archiving lookup failed", "gene", gene, "error", err)
		} else {
			s.logger.Debug("lookup archived", "gene", gene, "id", id)
		}
	}

	s.render(w, http.StatusOK, "results.html", newResultsView(out))
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("rendering page", "page", name, "error", err)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

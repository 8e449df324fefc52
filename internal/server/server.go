// Package server exposes forecast reports, extraction and classification
// over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ngmaloney/marine-outlook/internal/classify"
	"github.com/ngmaloney/marine-outlook/internal/extract"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 2 << 20

// Server serves the forecast API plus health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	client     noaa.MarineClient
	builder    *forecast.Builder
	extractor  *extract.Extractor
	classifier *classify.Classifier
}

// Option configures a Server.
type Option func(*Server)

// WithExtractor sets the extractor behind POST /api/extract.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Server) { s.extractor = e }
}

// WithClassifier sets the classifier behind POST /api/classify.
func WithClassifier(c *classify.Classifier) Option {
	return func(s *Server) { s.classifier = c }
}

// NewServer creates a server listening on addr. Forecast pages come from
// client and are turned into reports by builder.
func NewServer(addr string, client noaa.MarineClient, builder *forecast.Builder, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:     logger,
		client:     client,
		builder:    builder,
		extractor:  extract.New(),
		classifier: classify.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/forecast/{zone}", s.handleForecast)
		r.Post("/extract", s.handleExtract)
		r.Post("/classify", s.handleClassify)
	})
	return r
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

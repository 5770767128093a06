// Package server exposes script analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/script-analytics/internal/config"
	"github.com/sells-group/script-analytics/internal/model"
	"github.com/sells-group/script-analytics/internal/service"
)

const (
	userHeader   = "X-User-ID"
	maxBodyBytes = 1 << 20
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	svc      *service.Service
	cfg      config.ServerConfig
	registry *prometheus.Registry
	metrics  *Metrics
}

// New creates a Server with its own metrics registry.
func New(svc *service.Service, cfg config.ServerConfig) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		svc:      svc,
		cfg:      cfg,
		registry: reg,
		metrics:  NewMetrics(reg),
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", userHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)))
		}
		r.Post("/analysis", s.analyze)
		r.Post("/scripts", s.saveScript)
		r.Get("/scripts/{id}", s.getScript)
		r.Post("/scripts/{id}/use", s.markUsed)
		r.Get("/analytics/comparison", s.comparison)
		r.Get("/analytics/summary", s.summary)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

type analysisRequest struct {
	Script  json.RawMessage       `json:"script"`
	Channel *model.ChannelContext `json:"channel,omitempty"`
}

type saveRequest struct {
	IdeaID  string                `json:"idea_id"`
	Script  json.RawMessage       `json:"script"`
	Channel *model.ChannelContext `json:"channel,omitempty"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return eris.Wrap(err, "server: decode body")
	}
	return nil
}

func userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userHeader))
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be a JSON object")
		return
	}
	script, err := model.ParseScript(req.Script)
	if err != nil {
		writeMappedError(w, r, "analyze", err)
		return
	}

	a, err := s.svc.Analyze(r.Context(), script, req.Channel)
	if err != nil {
		writeMappedError(w, r, "analyze", err)
		return
	}
	s.metrics.observeAnalysis(script.Variant(), a)
	writeSuccess(w, http.StatusOK, a)
}

func (s *Server) saveScript(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be a JSON object")
		return
	}
	script, err := model.ParseScript(req.Script)
	if err != nil {
		writeMappedError(w, r, "save_script", err)
		return
	}

	res, err := s.svc.AnalyzeAndSave(r.Context(), service.SaveRequest{
		UserID:  userID(r),
		IdeaID:  req.IdeaID,
		Script:  script,
		Channel: req.Channel,
	})
	if err != nil {
		writeMappedError(w, r, "save_script", err)
		return
	}
	s.metrics.observeAnalysis(script.Variant(), res.Analysis)
	writeSuccess(w, http.StatusCreated, res)
}

func (s *Server) getScript(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(w, r, "get_script", err)
		return
	}
	writeSuccess(w, http.StatusOK, rec)
}

func (s *Server) markUsed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.MarkUsed(r.Context(), userID(r), id); err != nil {
		writeMappedError(w, r, "mark_used", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "was_used": true})
}

func (s *Server) comparison(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Comparison(r.Context(), userID(r))
	if err != nil {
		writeMappedError(w, r, "comparison", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Summary(r.Context(), userID(r))
	if err != nil {
		writeMappedError(w, r, "summary", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

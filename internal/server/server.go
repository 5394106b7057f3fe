// Package server exposes the PromptStudio pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/valpere/promptstudio/internal"
	"github.com/valpere/promptstudio/internal/export"
	"github.com/valpere/promptstudio/internal/llm"
	"github.com/valpere/promptstudio/internal/orchestrator"
)

// maxBodyBytes caps the size of a run request.
const maxBodyBytes = 1 << 20

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (*internal.RunResult, error)
}

type Server struct {
	runner   Runner
	registry *llm.Registry
	logger   *slog.Logger
}

func New(runner Runner, registry *llm.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		runner:   runner,
		registry: registry,
		logger:   logger,
	}
}

// Handler returns the chi router serving the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Post("/run", s.handleRun)
	})
	return r
}

// runRequest is the body of POST /api/run. Zero values fall back to the
// CLI defaults.
type runRequest struct {
	Idea            string `json:"idea"`
	CreativityLevel int    `json:"creativity_level"`
	Model           string `json:"model"`
	Iterations      int    `json:"iterations"`
}

type modelInfo struct {
	ID          string       `json:"id"`
	Provider    llm.Provider `json:"provider"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := s.registry.Models()
	out := make([]modelInfo, len(models))
	for i, m := range models {
		out[i] = modelInfo{
			ID:          m.ID,
			Provider:    m.Provider,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRun runs the pipeline synchronously.
// POST /api/run[?format=json|text|yaml|html]
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format = f
	}

	var body runRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req := orchestrator.Request{
		Idea:            body.Idea,
		CreativityLevel: body.CreativityLevel,
		ModelID:         body.Model,
		Iterations:      body.Iterations,
	}
	if req.CreativityLevel == 0 {
		req.CreativityLevel = 5
	}
	if req.Iterations == 0 {
		req.Iterations = 1
	}
	if req.ModelID == "" {
		req.ModelID = s.registry.First().ID
	}
	if _, err := s.registry.Get(req.ModelID); err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w; configured models: %s", err, strings.Join(s.registry.IDs(), ", ")))
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("run canceled", "error", err)
		writeError(w, http.StatusGatewayTimeout, err)
		return
	case errors.Is(err, orchestrator.ErrGeneration):
		s.logger.Warn("run failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	default:
		s.logger.Error("run failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != export.FormatJSON {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.DefaultFilename(result, format)))
	}
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, result, format); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

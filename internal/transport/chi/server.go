// Package chi is the HTTP transport for the ask API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdex/internal/domain"
	healthuc "github.com/kailas-cloud/askdex/internal/usecase/health"
)

// AskService answers one question through the search/filter/generate pipeline.
type AskService interface {
	Ask(ctx context.Context, question string) (domain.AnswerPayload, error)
}

// Server exposes the ask pipeline over HTTP.
type Server struct {
	ask    AskService
	health *healthuc.Service
	webDir string
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(ask AskService, health *healthuc.Service, webDir string, logger *zap.Logger) *Server {
	return &Server{
		ask:    ask,
		health: health,
		webDir: webDir,
		logger: logger,
	}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/api/ask", s.HandleAsk)
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type askRequest struct {
	Question string `json:"question"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// degradedResponse is the success-shaped body returned when search
// credentials are absent: an explanation in error, an answer, no sources.
type degradedResponse struct {
	Error   string                `json:"error"`
	Answer  string                `json:"answer"`
	Sources []domain.SearchResult `json:"sources"`
}

// HandleAsk handles POST /api/ask.
func (s *Server) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	payload, err := s.ask.Ask(r.Context(), req.Question)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	if payload.Degraded {
		writeJSON(w, http.StatusOK, degradedResponse{
			Error:   payload.Notice,
			Answer:  payload.Answer,
			Sources: []domain.SearchResult{},
		})
		return
	}

	if payload.Sources == nil {
		payload.Sources = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, payload)
}

// Index serves the front-end entry file.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handlePipelineError maps pipeline failures to responses. Validation
// errors produce a 400; everything else is the single top-level catch
// that turns a propagated provider failure into a 500 with the failure's
// description. No partial payload is ever written here.
func (s *Server) handlePipelineError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrEmptyQuestion) {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyQuestion.Error())
		return
	}

	s.logger.Error("ask pipeline failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

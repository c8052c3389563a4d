// Package server is the HTTP front end: one search endpoint wrapping the
// orchestrator. It holds no pipeline state of its own.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/cors"

	"echoforge/internal/app/core"
	"echoforge/internal/app/orchestrate"
)

// SearchRequest is the inbound contract of POST /api/search.
type SearchRequest struct {
	Target      string `json:"target"`
	TargetType  string `json:"target_type"`
	MaxResults  int    `json:"max_results"`
	DeepSearch  bool   `json:"deep_search"`
	DarkWeb     bool   `json:"dark_web"`
	// SocialMedia defaults to true when omitted, so it is a pointer.
	SocialMedia *bool `json:"social_media"`
}

// Validate enforces the request contract. Target type is also re-checked by
// the orchestrator; rejecting it here gives the caller a 400 instead of a 500.
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Target, validation.Required, validation.Length(1, 512)),
		validation.Field(&r.TargetType, validation.In(core.TargetPerson, core.TargetEmail, core.TargetPhone)),
		validation.Field(&r.MaxResults, validation.Min(0), validation.Max(100)),
	)
}

// Server routes API traffic onto one orchestrator.
type Server struct {
	orch   *orchestrate.Orchestrator
	logger *slog.Logger
}

// New builds the server around an orchestrator.
func New(orch *orchestrate.Orchestrator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{orch: orch, logger: logger}
}

// Handler assembles the router with CORS for the frontend origin.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.Handler)
	r.Post("/api/search", s.handleSearch)
	r.Get("/api/health", s.handleHealth)
	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// Front-end defaults: person target, social media on.
	if req.TargetType == "" {
		req.TargetType = core.TargetPerson
	}
	if req.MaxResults == 0 {
		req.MaxResults = 20
	}
	socialMedia := true
	if req.SocialMedia != nil {
		socialMedia = *req.SocialMedia
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.orch.Run(r.Context(), req.Target, req.TargetType, req.MaxResults, core.Options{
		DeepSearch:  req.DeepSearch,
		DarkWeb:     req.DarkWeb,
		SocialMedia: socialMedia,
	})
	if err != nil {
		s.logger.Error("search failed", "target", req.Target, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"quota_used":      s.orch.QuotaUsed(),
		"quota_remaining": s.orch.QuotaRemaining(),
	})
}

// respondJSON marshals first so an encoding failure cannot produce a partial
// body after headers are sent.
func respondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]any{
		"error":  detail,
		"status": status,
	})
}

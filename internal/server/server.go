// Package server exposes the dialogue facade over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelier-shop/assistant-bot/internal/dialogue"
	"github.com/atelier-shop/assistant-bot/internal/health"
	"github.com/atelier-shop/assistant-bot/pkg/logger"
)

// messageRequest is one inbound chat turn. A missing conversation_id starts a
// fresh conversation; the generated id is echoed back so the client can keep
// the thread.
type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

type messageResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

// Server handles the HTTP surface: messages, health, and metrics.
type Server struct {
	dialogue *dialogue.Service
	checker  *health.Checker
	log      *slog.Logger
}

// New constructs the HTTP server façade.
func New(svc *dialogue.Service, checker *health.Checker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		dialogue: svc,
		checker:  checker,
		log:      log,
	}
}

// Handler builds the HTTP routing table with logging and correlation middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", s.handleMessage)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return logger.Middleware(LoggingMiddleware(s.log)(mux))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply := s.dialogue.Respond(r.Context(), req.ConversationID, req.Text)

	writeJSON(w, http.StatusOK, messageResponse{
		ConversationID: req.ConversationID,
		Reply:          reply,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	results := s.checker.Check(r.Context())

	status := http.StatusOK
	for _, result := range results {
		if result != "OK" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, results)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/delivery/http/response"
	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/usecase"
)

type Handler struct {
	progress usecase.ProgressReader
	log      *zap.Logger
}

func NewHandler(progress usecase.ProgressReader, log *zap.Logger) *Handler {
	return &Handler{
		progress: progress,
		log:      log,
	}
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.NewProgressResponse(h.progress.Snapshot()))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSONError(w, "Not found", http.StatusNotFound)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}

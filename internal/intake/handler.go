package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carebridge/complaint-intake/pkg/logging"
)

// Handler wires HTTP requests to the intake service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an intake handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("intake: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Start handles POST /intake/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.StartSession(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err.Error())
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// Message handles POST /intake/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.HandleMessage(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "Session not found or expired", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to process message", "error", err.Error())
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// End handles POST /intake/end.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	if err := h.service.EndSession(r.Context(), req.SessionID); err != nil {
		h.logger.Error("failed to end session", "error", err.Error())
		http.Error(w, "Failed to end session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err.Error())
	}
}

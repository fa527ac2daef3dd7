package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// HistoryResponse is the body of the history endpoint.
type HistoryResponse struct {
	ConversationID string `json:"conversationId"`
	Messages       []Turn `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Message handles POST /api/consultant/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode message request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	reply := h.service.ProcessMessage(r.Context(), req)
	h.logger.Info("consultant reply",
		"conversation_id", reply.ConversationID,
		"strategy", reply.Strategy,
		"consultation_type", reply.ConsultationType,
		"industry", reply.Industry,
	)
	h.writeJSON(w, http.StatusOK, reply)
}

// History handles GET /api/consultant/conversations/{conversationID}.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := NormalizeID(chi.URLParam(r, "conversationID"))
	h.writeJSON(w, http.StatusOK, HistoryResponse{
		ConversationID: id,
		Messages:       h.service.History(r.Context(), id),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

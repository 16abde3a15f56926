package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/turtacn/PatentVault/internal/intelligence/llm"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// Chatter is the portfolio chat assistant.
type Chatter interface {
	Ask(ctx context.Context, message string) string
	Reset()
	History() []llm.Message
}

// AssistantHandler exposes the chat assistant.
type AssistantHandler struct {
	base
	assistant Chatter
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(a Chatter, logger logging.Logger, errs ErrorRecorder) *AssistantHandler {
	return &AssistantHandler{base: newBase("assistant", logger, errs), assistant: a}
}

// ChatRequest is the body of POST /assistant/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply. Provider failures arrive as a
// fixed apology text, never as an HTTP error.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat handles POST /assistant/chat.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.fail(w, r, errors.InvalidParam("message is required"))
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: h.assistant.Ask(r.Context(), req.Message)})
}

// History handles GET /assistant/chat.
func (h *AssistantHandler) History(w http.ResponseWriter, r *http.Request) {
	history := h.assistant.History()
	if history == nil {
		history = []llm.Message{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Reset handles DELETE /assistant/chat.
func (h *AssistantHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.assistant.Reset()
	w.WriteHeader(http.StatusNoContent)
}

//Personal.AI order the ending

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

type InboundHandler struct {
	Bot    LeadBot
	Logger *slog.Logger
}

func NewInboundHandler(bot LeadBot, logger *slog.Logger) *InboundHandler {
	return &InboundHandler{Bot: bot, Logger: logger}
}

// Handle receives a WhatsApp inbound message. Replayed provider message ids
// answer 200 with empty lists.
func (h *InboundHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.InboundInput
	if err := decodeJSON(r, &input); err != nil {
		middleware.RecordInbound("rejected")
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	out, err := h.Bot.ReceiveInbound(r.Context(), input)
	if err != nil {
		middleware.RecordInbound("rejected")
		writeUsecaseError(w, h.Logger, err)
		return
	}

	if out.Conversation == nil {
		middleware.RecordInbound("duplicate")
	} else {
		middleware.RecordInbound("processed")
	}

	writeJSON(w, http.StatusOK, out)
}

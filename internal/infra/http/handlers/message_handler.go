package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

type MessageHandler struct {
	Bot    LeadBot
	Logger *slog.Logger
}

type MessageResponse struct {
	Message *entity.OutboundMessage `json:"message"`
}

func NewMessageHandler(bot LeadBot, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{Bot: bot, Logger: logger}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendMessageInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	msg, err := h.Bot.SendMessage(r.Context(), input)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) && de.Code == usecase.CodePolicyDenied {
			middleware.RecordPolicyDenial(de.Message)
		}
		writeUsecaseError(w, h.Logger, err)
		return
	}

	middleware.RecordMessageSent(string(msg.MessageType))
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

type AuditHandler struct {
	Bot    LeadBot
	Logger *slog.Logger
}

type AuditResponse struct {
	Events []entity.AuditEvent `json:"events"`
}

func NewAuditHandler(bot LeadBot, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{Bot: bot, Logger: logger}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.Bot.AuditEvents(r.Context())
	if err != nil {
		writeUsecaseError(w, h.Logger, err)
		return
	}
	if events == nil {
		events = []entity.AuditEvent{}
	}

	writeJSON(w, http.StatusOK, AuditResponse{Events: events})
}

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
)

type SchedulerHandler struct {
	Bot    LeadBot
	Logger *slog.Logger
}

func NewSchedulerHandler(bot LeadBot, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{Bot: bot, Logger: logger}
}

// Run executes one scheduler tick at the service clock.
func (h *SchedulerHandler) Run(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bot.RunScheduler(r.Context(), time.Time{})
	if err != nil {
		writeUsecaseError(w, h.Logger, err)
		return
	}

	middleware.RecordSchedulerResults(out.Results)

	writeJSON(w, http.StatusOK, out)
}

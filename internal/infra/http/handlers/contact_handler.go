package handlers

import (
	"log/slog"
	"net/http"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

type ContactHandler struct {
	Bot     LeadBot
	Logger  *slog.Logger
	Limiter *RateLimiter
}

type ContactResponse struct {
	Contact *entity.Contact `json:"contact"`
}

type RevokeConsentRequest struct {
	ContactID string `json:"contactId"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func NewContactHandler(bot LeadBot, limiter *RateLimiter, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{Bot: bot, Limiter: limiter, Logger: logger}
}

// Register is rate limited per client IP when a limiter is set.
func (h *ContactHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil && !h.Limiter.Allow(getClientIP(r)) {
		h.Logger.Warn("contact registration rate limited", slog.String("ip", getClientIP(r)))
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.RegisterContactInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	contact, err := h.Bot.RegisterContact(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, ContactResponse{Contact: contact})
}

func (h *ContactHandler) RevokeConsent(w http.ResponseWriter, r *http.Request) {
	var req RevokeConsentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if err := h.Bot.RevokeConsent(r.Context(), req.ContactID); err != nil {
		writeUsecaseError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

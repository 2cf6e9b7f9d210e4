package usecase

import (
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

const (
	ReasonOK                  = "ok"
	ReasonOutsideSendWindow   = "outside_allowed_send_window"
	ReasonTemplateRequired24h = "template_required_outside_24h"
)

type SendDecision struct {
	Allowed bool
	Reason  string
}

// PolicyEngine decides whether a message may go out right now. It has no side effects.
type PolicyEngine struct {
	startHour int
	endHour   int
}

func NewPolicyEngine(cfg config.BotConfig) *PolicyEngine {
	return &PolicyEngine{startHour: cfg.SendWindowStartHour, endHour: cfg.SendWindowEndHour}
}

// CanSend evaluates the hour gate first, so templates are also blocked at night.
// The hour is read in now's own location, not the contact's timezone.
func (p *PolicyEngine) CanSend(now time.Time, conv *entity.Conversation, messageType entity.MessageType) SendDecision {
	hour := now.Hour()
	if hour < p.startHour || hour > p.endHour {
		return SendDecision{Allowed: false, Reason: ReasonOutsideSendWindow}
	}

	if messageType == entity.MessageTypeTemplate {
		return SendDecision{Allowed: true, Reason: ReasonOK}
	}

	if conv == nil || conv.ServiceWindowExpiresAt == nil || now.After(*conv.ServiceWindowExpiresAt) {
		return SendDecision{Allowed: false, Reason: ReasonTemplateRequired24h}
	}
	return SendDecision{Allowed: true, Reason: ReasonOK}
}

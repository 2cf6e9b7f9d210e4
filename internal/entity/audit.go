package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEventType string

const (
	AuditConsentGranted    AuditEventType = "consent_granted"
	AuditConsentRevoked    AuditEventType = "consent_revoked"
	AuditPolicyBlockedSend AuditEventType = "policy_blocked_send"
)

// AuditEvent is append-only.
type AuditEvent struct {
	ID        string            `json:"id"`
	EventType AuditEventType    `json:"eventType"`
	ContactID string            `json:"contactId"`
	Details   map[string]string `json:"details"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewAuditEvent(eventType AuditEventType, contactID string, details map[string]string, at time.Time) *AuditEvent {
	if details == nil {
		details = map[string]string{}
	}
	return &AuditEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		ContactID: contactID,
		Details:   details,
		CreatedAt: at,
	}
}

type AuditLogInterface interface {
	Append(ctx context.Context, e *AuditEvent) error
	List(ctx context.Context) ([]AuditEvent, error)
}

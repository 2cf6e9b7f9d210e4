package handlers

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

// LeadBot is the subset of usecase.BotService the HTTP layer drives.
type LeadBot interface {
	RegisterContact(ctx context.Context, input usecase.RegisterContactInput) (*entity.Contact, error)
	RevokeConsent(ctx context.Context, contactID string) error
	ReceiveInbound(ctx context.Context, input usecase.InboundInput) (*usecase.InboundOutput, error)
	SendMessage(ctx context.Context, input usecase.SendMessageInput) (*entity.OutboundMessage, error)
	RunScheduler(ctx context.Context, now time.Time) (*usecase.SchedulerOutput, error)
	AuditEvents(ctx context.Context) ([]entity.AuditEvent, error)
	PendingTasks(ctx context.Context) (int, error)
}

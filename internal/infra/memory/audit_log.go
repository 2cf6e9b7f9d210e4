package memory

import (
	"context"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// AuditLog is append-only; List hands out copies.
type AuditLog struct {
	events []entity.AuditEvent
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Append(_ context.Context, e *entity.AuditEvent) error {
	l.events = append(l.events, *e)
	return nil
}

func (l *AuditLog) List(_ context.Context) ([]entity.AuditEvent, error) {
	out := make([]entity.AuditEvent, len(l.events))
	copy(out, l.events)
	return out, nil
}

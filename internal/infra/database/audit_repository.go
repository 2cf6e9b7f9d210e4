package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// AuditRepository is append-only: there is no update or delete.
type AuditRepository struct {
	DB *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) Append(ctx context.Context, e *entity.AuditEvent) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, event_type, contact_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.DB.ExecContext(ctx, query, e.ID, string(e.EventType), e.ContactID, details, e.CreatedAt)
	return err
}

// List returns every event in insertion order.
func (r *AuditRepository) List(ctx context.Context) ([]entity.AuditEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, event_type, contact_id, details, created_at
		FROM audit_events
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []entity.AuditEvent{}
	for rows.Next() {
		var (
			e         entity.AuditEvent
			eventType string
			details   []byte
		)
		if err := rows.Scan(&e.ID, &eventType, &e.ContactID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EventType = entity.AuditEventType(eventType)
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("decode audit details %s: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

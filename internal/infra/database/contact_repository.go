package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

// Save upserts the contact. Re-registration overwrites every column, consent included.
func (r *ContactRepository) Save(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, whatsapp_e164, first_name, timezone, consent_granted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			whatsapp_e164 = EXCLUDED.whatsapp_e164,
			first_name = EXCLUDED.first_name,
			timezone = EXCLUDED.timezone,
			consent_granted = EXCLUDED.consent_granted,
			created_at = EXCLUDED.created_at
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.WhatsAppE164,
		c.FirstName,
		c.Timezone,
		c.ConsentGranted,
		c.CreatedAt,
	)
	return err
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `
		SELECT id, whatsapp_e164, first_name, timezone, consent_granted, created_at
		FROM contacts
		WHERE id = $1
	`

	var c entity.Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.WhatsAppE164,
		&c.FirstName,
		&c.Timezone,
		&c.ConsentGranted,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) RevokeConsent(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE contacts SET consent_granted = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrContactNotFound
	}
	return nil
}

package entity

import (
	"context"
	"errors"
	"time"
)

var ErrContactNotFound = errors.New("contact not found")

const DefaultTimezone = "Europe/Berlin"

// Contact is the lead behind a WhatsApp number. Conversations reference it by ID.
type Contact struct {
	ID             string    `json:"contactId"`
	WhatsAppE164   string    `json:"whatsappE164"`
	FirstName      string    `json:"firstName"`
	Timezone       string    `json:"timezone"`
	ConsentGranted bool      `json:"consentGranted"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewContact registers consent at creation time.
func NewContact(id, whatsAppE164, firstName, timezone string, now time.Time) *Contact {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &Contact{
		ID:             id,
		WhatsAppE164:   whatsAppE164,
		FirstName:      firstName,
		Timezone:       timezone,
		ConsentGranted: true,
		CreatedAt:      now,
	}
}

type ContactRepositoryInterface interface {
	Save(ctx context.Context, c *Contact) error
	// FindByID returns ErrContactNotFound when the id is not registered.
	FindByID(ctx context.Context, id string) (*Contact, error)
	RevokeConsent(ctx context.Context, id string) error
}

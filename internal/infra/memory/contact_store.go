package memory

import (
	"context"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// ContactStore is a keyed contact registry. It holds no lock: callers serialize access.
type ContactStore struct {
	contacts map[string]*entity.Contact
}

func NewContactStore() *ContactStore {
	return &ContactStore{contacts: make(map[string]*entity.Contact)}
}

func (s *ContactStore) Save(_ context.Context, c *entity.Contact) error {
	stored := *c
	s.contacts[c.ID] = &stored
	return nil
}

func (s *ContactStore) FindByID(_ context.Context, id string) (*entity.Contact, error) {
	c, ok := s.contacts[id]
	if !ok {
		return nil, entity.ErrContactNotFound
	}
	found := *c
	return &found, nil
}

func (s *ContactStore) RevokeConsent(_ context.Context, id string) error {
	c, ok := s.contacts[id]
	if !ok {
		return entity.ErrContactNotFound
	}
	c.ConsentGranted = false
	return nil
}

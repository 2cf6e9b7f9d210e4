package memory

import (
	"context"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// ConversationStore keeps exactly one record per conversation id and never deletes.
type ConversationStore struct {
	conversations map[string]*entity.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{conversations: make(map[string]*entity.Conversation)}
}

func (s *ConversationStore) GetOrCreate(_ context.Context, id, contactID string) (*entity.Conversation, error) {
	if c, ok := s.conversations[id]; ok {
		return c, nil
	}
	c := entity.NewConversation(id, contactID)
	s.conversations[id] = c
	return c, nil
}

func (s *ConversationStore) FindByID(_ context.Context, id string) (*entity.Conversation, error) {
	return s.conversations[id], nil
}

func (s *ConversationStore) Save(_ context.Context, c *entity.Conversation) error {
	s.conversations[c.ID] = c
	return nil
}

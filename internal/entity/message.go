package entity

import (
	"errors"
	"time"
)

type MessageType string

const (
	MessageTypeSessionText MessageType = "session_text"
	MessageTypeTemplate    MessageType = "template"
)

func (t MessageType) Valid() bool {
	return t == MessageTypeSessionText || t == MessageTypeTemplate
}

type InboundMessage struct {
	ProviderMessageID string    `json:"providerMessageId"`
	ConversationID    string    `json:"conversationId"`
	ContactID         string    `json:"contactId"`
	Content           string    `json:"content"`
	ReceivedAt        time.Time `json:"receivedAt"`
}

// OutboundMessage is returned to the caller only; it is never stored.
type OutboundMessage struct {
	ConversationID string      `json:"conversationId"`
	ContactID      string      `json:"contactId"`
	MessageType    MessageType `json:"messageType"`
	TemplateName   *string     `json:"templateName"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// ErrUnknownTemplate is returned when a template name is not registered with the renderer.
var ErrUnknownTemplate = errors.New("unknown template")

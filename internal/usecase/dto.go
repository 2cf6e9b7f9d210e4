package usecase

import (
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

type RegisterContactInput struct {
	ContactID    string `json:"contactId"`
	WhatsAppE164 string `json:"whatsappE164"`
	FirstName    string `json:"firstName"`
	Timezone     string `json:"timezone,omitempty"`
}

type InboundInput struct {
	ProviderMessageID string `json:"providerMessageId"`
	ConversationID    string `json:"conversationId"`
	ContactID         string `json:"contactId"`
	Content           string `json:"content"`

	// ReceivedAt defaults to the service clock when zero.
	ReceivedAt time.Time `json:"receivedAt"`
}

// InboundOutput is empty, with a nil Conversation, for a duplicate provider message id.
type InboundOutput struct {
	Outbound     []string               `json:"outbound"`
	Tasks        []entity.ScheduledTask `json:"tasks"`
	Conversation *entity.Conversation   `json:"conversation,omitempty"`
}

type SendMessageInput struct {
	ConversationID string             `json:"conversationId"`
	ContactID      string             `json:"contactId"`
	Content        string             `json:"content,omitempty"`
	MessageType    entity.MessageType `json:"messageType,omitempty"`
	TemplateName   string             `json:"templateName,omitempty"`
	Vars           map[string]string  `json:"vars,omitempty"`

	// Now defaults to the service clock when zero.
	Now time.Time `json:"-"`
}

// TaskOutcome tags what happened to one due task during a scheduler run.
type TaskOutcome string

const (
	TaskSent                TaskOutcome = "sent"
	TaskMissingConversation TaskOutcome = "missing_conversation"
	TaskMissingContact      TaskOutcome = "missing_contact"
	TaskConsentRevoked      TaskOutcome = "consent_revoked"
	TaskNoTemplate          TaskOutcome = "no_template"
	TaskSendFailed          TaskOutcome = "send_failed"
)

type TaskResult struct {
	Task    entity.ScheduledTask    `json:"task"`
	Outcome TaskOutcome             `json:"outcome"`
	Reason  string                  `json:"reason,omitempty"`
	Message *entity.OutboundMessage `json:"message,omitempty"`

	// PolicyDenied marks a send_failed result whose Reason is a policy reason.
	PolicyDenied bool `json:"policyDenied,omitempty"`
}

type SchedulerOutput struct {
	Sent    []entity.OutboundMessage `json:"sent"`
	Results []TaskResult             `json:"results"`
}

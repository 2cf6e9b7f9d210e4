package entity

import (
	"context"
	"time"
)

type ConversationState string

const (
	StateAwaitingConsentAck ConversationState = "awaiting_consent_ack"
	StateAwaitingAds        ConversationState = "awaiting_ads"
	StateAwaitingLeads      ConversationState = "awaiting_leads"
	StateClosed             ConversationState = "closed"
)

type ConversationStatus string

const (
	StatusOpen         ConversationStatus = "open"
	StatusQualified    ConversationStatus = "qualified"
	StatusDisqualified ConversationStatus = "disqualified"
	StatusHandover     ConversationStatus = "handover"
)

type Owner string

const (
	OwnerBot   Owner = "bot"
	OwnerHuman Owner = "human"
)

type AdsRunning string

const (
	AdsUnknown AdsRunning = "unknown"
	AdsYes     AdsRunning = "yes"
	AdsNo      AdsRunning = "no"
)

// ServiceWindow is how long free-form replies stay allowed after an inbound message.
const ServiceWindow = 24 * time.Hour

type Conversation struct {
	ID                     string             `json:"conversationId"`
	ContactID              string             `json:"contactId"`
	State                  ConversationState  `json:"state"`
	Status                 ConversationStatus `json:"status"`
	Owner                  Owner              `json:"owner"`
	AdsRunning             AdsRunning         `json:"adsRunning"`
	MonthlyLeadsBucket     LeadBucket         `json:"monthlyLeadsBucket"`
	ServiceWindowExpiresAt *time.Time         `json:"serviceWindowExpiresAt"`
}

func NewConversation(id, contactID string) *Conversation {
	return &Conversation{
		ID:                 id,
		ContactID:          contactID,
		State:              StateAwaitingConsentAck,
		Status:             StatusOpen,
		Owner:              OwnerBot,
		AdsRunning:         AdsUnknown,
		MonthlyLeadsBucket: LeadBucketUnknown,
	}
}

// RefreshServiceWindow opens the free-form window for ServiceWindow after inboundAt.
func (c *Conversation) RefreshServiceWindow(inboundAt time.Time) {
	expires := inboundAt.Add(ServiceWindow)
	c.ServiceWindowExpiresAt = &expires
}

func (c *Conversation) HandedOver() bool {
	return c.Owner == OwnerHuman
}

type ConversationRepositoryInterface interface {
	// GetOrCreate lazily creates the conversation on first use.
	GetOrCreate(ctx context.Context, id, contactID string) (*Conversation, error)
	// FindByID returns nil, nil when the conversation does not exist.
	FindByID(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
}

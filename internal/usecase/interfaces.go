package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

type TemplateRenderer interface {
	// Render fails with an error wrapping entity.ErrUnknownTemplate for unregistered names.
	Render(name string, vars map[string]string) (string, error)
	// Parameters lists the values of the variables a template references, in order.
	Parameters(name string, vars map[string]string) []string
}

// DispatchRequest is an accepted send plus what the provider needs to deliver it.
type DispatchRequest struct {
	Message entity.OutboundMessage
	To      string

	// Parameters are the positional template parameters; empty for session text.
	Parameters []string
}

// OutboundDispatcher hands accepted sends to the delivery pipeline.
type OutboundDispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) error
}

// LeadSyncer pushes qualified leads into the CRM.
type LeadSyncer interface {
	SyncQualifiedLead(ctx context.Context, contact entity.Contact, conversation entity.Conversation) error
}

// HandoverNotifier tells the sales team a lead asked for a human.
type HandoverNotifier interface {
	NotifyHandover(ctx context.Context, contact entity.Contact, conversation entity.Conversation, lastMessage string) error
}

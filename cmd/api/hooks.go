package main

import (
	"context"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

// The wrappers below count integration failures before handing the error back
// to the bot, which only logs it.

type instrumentedDispatcher struct {
	next usecase.OutboundDispatcher
}

func (d instrumentedDispatcher) Dispatch(ctx context.Context, req usecase.DispatchRequest) error {
	err := d.next.Dispatch(ctx, req)
	if err != nil {
		middleware.RecordIntegrationError("rabbitmq")
	}
	return err
}

type instrumentedLeadSyncer struct {
	next usecase.LeadSyncer
}

func (s instrumentedLeadSyncer) SyncQualifiedLead(ctx context.Context, contact entity.Contact, conv entity.Conversation) error {
	err := s.next.SyncQualifiedLead(ctx, contact, conv)
	if err != nil {
		middleware.RecordIntegrationError("kommo")
	}
	return err
}

type instrumentedNotifier struct {
	next usecase.HandoverNotifier
}

func (n instrumentedNotifier) NotifyHandover(ctx context.Context, contact entity.Contact, conv entity.Conversation, lastMessage string) error {
	err := n.next.NotifyHandover(ctx, contact, conv, lastMessage)
	if err != nil {
		middleware.RecordIntegrationError("mail")
	}
	return err
}

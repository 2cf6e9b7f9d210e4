package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// BotService coordinates the registry, the conversation table, the dedup set, the
// task queue and the audit log. Every operation runs under one lock, so the stores
// it owns need no locking of their own. Dispatcher, LeadSyncer and Notifier are
// optional and run after the lock is released; their errors are only logged.
type BotService struct {
	Contacts      entity.ContactRepositoryInterface
	Conversations entity.ConversationRepositoryInterface
	Audit         entity.AuditLogInterface
	Renderer      TemplateRenderer
	Policy        *PolicyEngine
	Engine        *ConversationEngine
	Scheduler     *Scheduler

	Dispatcher OutboundDispatcher
	LeadSyncer LeadSyncer
	Notifier   HandoverNotifier

	Logger *slog.Logger
	Now    func() time.Time

	cfg       config.BotConfig
	mu        sync.Mutex
	processed map[string]struct{}
}

func NewBotService(
	contacts entity.ContactRepositoryInterface,
	conversations entity.ConversationRepositoryInterface,
	tasks entity.TaskQueueInterface,
	audit entity.AuditLogInterface,
	renderer TemplateRenderer,
	cfg config.BotConfig,
	logger *slog.Logger,
) *BotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotService{
		Contacts:      contacts,
		Conversations: conversations,
		Audit:         audit,
		Renderer:      renderer,
		Policy:        NewPolicyEngine(cfg),
		Engine:        NewConversationEngine(),
		Scheduler:     NewScheduler(tasks, contacts, conversations, cfg),
		Logger:        logger,
		Now:           time.Now,
		cfg:           cfg,
		processed:     make(map[string]struct{}),
	}
}

// sideEffect runs outside the lock.
type sideEffect func(ctx context.Context)

func (s *BotService) runAfter(ctx context.Context, effects []sideEffect) {
	for _, fn := range effects {
		fn(ctx)
	}
}

// RegisterContact stores the contact with consent granted. Registering an existing id
// replaces the record and grants consent again.
func (s *BotService) RegisterContact(ctx context.Context, input RegisterContactInput) (*entity.Contact, error) {
	if errs := ValidateRegisterContactInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timezone := input.Timezone
	if timezone == "" {
		timezone = s.cfg.DefaultTimezone
	}
	now := s.Now()
	contact := entity.NewContact(
		input.ContactID,
		strings.TrimSpace(input.WhatsAppE164),
		strings.TrimSpace(input.FirstName),
		timezone,
		now,
	)

	if err := s.Contacts.Save(ctx, contact); err != nil {
		return nil, storeError("save contact", err)
	}
	s.audit(ctx, entity.AuditConsentGranted, contact.ID, map[string]string{"whatsappE164": contact.WhatsAppE164}, now)

	s.Logger.Info("contact registered", slog.String("contact_id", contact.ID))
	return contact, nil
}

func (s *BotService) RevokeConsent(ctx context.Context, contactID string) error {
	if strings.TrimSpace(contactID) == "" {
		return validationFailed([]ValidationError{{Field: "contactId", Message: "is required"}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findContact(ctx, contactID); err != nil {
		return err
	}
	if err := s.Contacts.RevokeConsent(ctx, contactID); err != nil {
		return storeError("revoke consent", err)
	}
	s.audit(ctx, entity.AuditConsentRevoked, contactID, nil, s.Now())

	s.Logger.Info("consent revoked", slog.String("contact_id", contactID))
	return nil
}

// ReceiveInbound runs one provider message through the state machine. A message id is
// only marked processed once the conversation and its tasks are stored, so a webhook
// redelivered after a failure (unknown contact, store error) is handled normally.
func (s *BotService) ReceiveInbound(ctx context.Context, input InboundInput) (*InboundOutput, error) {
	if errs := ValidateInboundInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	out, effects, err := s.receiveInbound(ctx, input)
	if err != nil {
		return nil, err
	}
	s.runAfter(ctx, effects)
	return out, nil
}

func (s *BotService) receiveInbound(ctx context.Context, input InboundInput) (*InboundOutput, []sideEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.processed[input.ProviderMessageID]; seen {
		s.Logger.Debug("duplicate inbound ignored", slog.String("provider_message_id", input.ProviderMessageID))
		return &InboundOutput{Outbound: []string{}, Tasks: []entity.ScheduledTask{}}, nil, nil
	}

	contact, err := s.findContact(ctx, input.ContactID)
	if err != nil {
		return nil, nil, err
	}

	conv, err := s.Conversations.GetOrCreate(ctx, input.ConversationID, input.ContactID)
	if err != nil {
		return nil, nil, storeError("load conversation", err)
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.Now()
	}
	msg := entity.InboundMessage{
		ProviderMessageID: input.ProviderMessageID,
		ConversationID:    input.ConversationID,
		ContactID:         input.ContactID,
		Content:           input.Content,
		ReceivedAt:        receivedAt,
	}

	previous := conv.Status
	result := s.Engine.Process(conv, msg)

	if err := s.Conversations.Save(ctx, conv); err != nil {
		return nil, nil, storeError("save conversation", err)
	}
	if err := s.Scheduler.Enqueue(ctx, result.Tasks...); err != nil {
		return nil, nil, err
	}
	s.processed[input.ProviderMessageID] = struct{}{}

	snapshot := *conv
	out := &InboundOutput{
		Outbound:     result.Outbound,
		Tasks:        result.Tasks,
		Conversation: &snapshot,
	}
	if out.Outbound == nil {
		out.Outbound = []string{}
	}
	if out.Tasks == nil {
		out.Tasks = []entity.ScheduledTask{}
	}

	s.Logger.Info("inbound processed",
		slog.String("conversation_id", conv.ID),
		slog.String("state", string(conv.State)),
		slog.String("status", string(conv.Status)),
		slog.Int("tasks", len(result.Tasks)),
	)

	return out, s.transitionEffects(*contact, snapshot, previous, input.Content), nil
}

func (s *BotService) transitionEffects(contact entity.Contact, conv entity.Conversation, previous entity.ConversationStatus, content string) []sideEffect {
	var effects []sideEffect

	if conv.Status == entity.StatusQualified && previous != entity.StatusQualified && s.LeadSyncer != nil {
		effects = append(effects, func(ctx context.Context) {
			if err := s.LeadSyncer.SyncQualifiedLead(ctx, contact, conv); err != nil {
				s.Logger.Error("failed to sync qualified lead", slog.String("conversation_id", conv.ID), slog.Any("error", err))
			}
		})
	}

	if conv.Status == entity.StatusHandover && previous != entity.StatusHandover && s.Notifier != nil {
		effects = append(effects, func(ctx context.Context) {
			if err := s.Notifier.NotifyHandover(ctx, contact, conv, content); err != nil {
				s.Logger.Error("failed to notify handover", slog.String("conversation_id", conv.ID), slog.Any("error", err))
			}
		})
	}

	return effects
}

// SendMessage checks consent and the send policy, then builds the outbound message.
// Denials are audited and returned with the policy reason as the message.
func (s *BotService) SendMessage(ctx context.Context, input SendMessageInput) (*entity.OutboundMessage, error) {
	if errs := ValidateSendMessageInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	s.mu.Lock()
	msg, req, err := s.sendMessage(ctx, input)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, req)
	return msg, nil
}

// sendMessage expects s.mu to be held.
func (s *BotService) sendMessage(ctx context.Context, input SendMessageInput) (*entity.OutboundMessage, *DispatchRequest, error) {
	contact, err := s.findContact(ctx, input.ContactID)
	if err != nil {
		return nil, nil, err
	}
	if !contact.ConsentGranted {
		return nil, nil, consentRevoked()
	}

	conv, err := s.Conversations.GetOrCreate(ctx, input.ConversationID, input.ContactID)
	if err != nil {
		return nil, nil, storeError("load conversation", err)
	}

	now := input.Now
	if now.IsZero() {
		now = s.Now()
	}
	messageType := input.MessageType
	if messageType == "" {
		messageType = entity.MessageTypeSessionText
	}

	decision := s.Policy.CanSend(now, conv, messageType)
	if !decision.Allowed {
		s.audit(ctx, entity.AuditPolicyBlockedSend, contact.ID, map[string]string{
			"reason":         decision.Reason,
			"conversationId": conv.ID,
			"messageType":    string(messageType),
		}, now)
		s.Logger.Warn("send blocked by policy",
			slog.String("conversation_id", conv.ID),
			slog.String("reason", decision.Reason),
		)
		return nil, nil, policyDenied(decision.Reason)
	}

	msg := &entity.OutboundMessage{
		ConversationID: conv.ID,
		ContactID:      contact.ID,
		MessageType:    messageType,
		Content:        input.Content,
		CreatedAt:      now,
	}

	var params []string
	if messageType == entity.MessageTypeTemplate {
		vars := map[string]string{"firstName": contact.FirstName}
		for k, v := range input.Vars {
			vars[k] = v
		}

		content, err := s.Renderer.Render(input.TemplateName, vars)
		if err != nil {
			if errors.Is(err, entity.ErrUnknownTemplate) {
				return nil, nil, &DomainError{Code: CodeUnknownTemplate, Message: err.Error(), Err: err}
			}
			return nil, nil, &TechnicalError{Code: CodeUnknownTemplate, Message: "render template: " + err.Error(), Err: err}
		}
		name := input.TemplateName
		msg.TemplateName = &name
		msg.Content = content
		params = s.Renderer.Parameters(name, vars)
	}

	return msg, &DispatchRequest{Message: *msg, To: contact.WhatsAppE164, Parameters: params}, nil
}

func (s *BotService) dispatch(ctx context.Context, req *DispatchRequest) {
	if s.Dispatcher == nil || req == nil {
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, *req); err != nil {
		s.Logger.Error("failed to dispatch outbound message",
			slog.String("conversation_id", req.Message.ConversationID),
			slog.Any("error", err),
		)
	}
}

// RunScheduler sends every task due at now through SendMessage. A failing task is
// reported in its TaskResult and never stops the tick.
func (s *BotService) RunScheduler(ctx context.Context, now time.Time) (*SchedulerOutput, error) {
	if now.IsZero() {
		now = s.Now()
	}

	var requests []*DispatchRequest

	s.mu.Lock()
	results, err := s.Scheduler.Run(ctx, now, func(ctx context.Context, input SendMessageInput) (*entity.OutboundMessage, error) {
		msg, req, err := s.sendMessage(ctx, input)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
		return msg, nil
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, req := range requests {
		s.dispatch(ctx, req)
	}

	if results == nil {
		results = []TaskResult{}
	}
	out := &SchedulerOutput{Sent: []entity.OutboundMessage{}, Results: results}
	for _, r := range results {
		if r.Outcome == TaskSent && r.Message != nil {
			out.Sent = append(out.Sent, *r.Message)
			continue
		}
		s.Logger.Info("scheduled task dropped",
			slog.String("conversation_id", r.Task.ConversationID),
			slog.String("task_type", string(r.Task.TaskType)),
			slog.String("outcome", string(r.Outcome)),
			slog.String("reason", r.Reason),
		)
	}
	return out, nil
}

func (s *BotService) AuditEvents(ctx context.Context) ([]entity.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.Audit.List(ctx)
	if err != nil {
		return nil, storeError("list audit events", err)
	}
	return events, nil
}

// PendingTasks reports how many scheduled tasks are still queued.
func (s *BotService) PendingTasks(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Scheduler.Pending(ctx)
}

func (s *BotService) findContact(ctx context.Context, contactID string) (*entity.Contact, error) {
	contact, err := s.Contacts.FindByID(ctx, contactID)
	if errors.Is(err, entity.ErrContactNotFound) {
		return nil, unknownContact(contactID)
	}
	if err != nil {
		return nil, storeError("load contact", err)
	}
	return contact, nil
}

// audit failures are logged; the audited operation has already happened.
func (s *BotService) audit(ctx context.Context, eventType entity.AuditEventType, contactID string, details map[string]string, at time.Time) {
	event := entity.NewAuditEvent(eventType, contactID, details, at)
	if err := s.Audit.Append(ctx, event); err != nil {
		s.Logger.Error("failed to append audit event",
			slog.String("event_type", string(eventType)),
			slog.Any("error", err),
		)
	}
}

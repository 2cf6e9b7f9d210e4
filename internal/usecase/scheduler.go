package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

// SendFunc delivers one template send on behalf of the scheduler.
type SendFunc func(ctx context.Context, input SendMessageInput) (*entity.OutboundMessage, error)

// Scheduler owns the pending follow-up and reminder tasks. It only advances when Run is called.
type Scheduler struct {
	queue         entity.TaskQueueInterface
	contacts      entity.ContactRepositoryInterface
	conversations entity.ConversationRepositoryInterface
	reminderTime  string
	reminderLink  string
}

func NewScheduler(
	queue entity.TaskQueueInterface,
	contacts entity.ContactRepositoryInterface,
	conversations entity.ConversationRepositoryInterface,
	cfg config.BotConfig,
) *Scheduler {
	return &Scheduler{
		queue:         queue,
		contacts:      contacts,
		conversations: conversations,
		reminderTime:  cfg.ReminderTime,
		reminderLink:  cfg.ReminderLink,
	}
}

func (s *Scheduler) Enqueue(ctx context.Context, tasks ...entity.ScheduledTask) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := s.queue.Push(ctx, tasks...); err != nil {
		return storeError("enqueue tasks", err)
	}
	return nil
}

func (s *Scheduler) Pending(ctx context.Context) (int, error) {
	n, err := s.queue.Len(ctx)
	if err != nil {
		return 0, storeError("count tasks", err)
	}
	return n, nil
}

// Run consumes every task due at now. Each task is tried once and yields exactly one
// TaskResult; failures are recorded in the result and never requeued. Tasks not yet
// due stay queued. The only error returned is a failure to read the queue itself.
func (s *Scheduler) Run(ctx context.Context, now time.Time, send SendFunc) ([]TaskResult, error) {
	due, err := s.queue.PopDue(ctx, now)
	if err != nil {
		return nil, storeError("pop due tasks", err)
	}

	results := make([]TaskResult, 0, len(due))
	for _, task := range due {
		results = append(results, s.runTask(ctx, now, task, send))
	}
	return results, nil
}

func (s *Scheduler) runTask(ctx context.Context, now time.Time, task entity.ScheduledTask, send SendFunc) TaskResult {
	result := TaskResult{Task: task}

	conv, err := s.conversations.FindByID(ctx, task.ConversationID)
	if err != nil {
		return result.failed(fmt.Sprintf("load conversation: %v", err))
	}
	if conv == nil {
		result.Outcome = TaskMissingConversation
		return result
	}

	contact, err := s.contacts.FindByID(ctx, conv.ContactID)
	if errors.Is(err, entity.ErrContactNotFound) {
		result.Outcome = TaskMissingContact
		return result
	}
	if err != nil {
		return result.failed(fmt.Sprintf("load contact: %v", err))
	}
	if !contact.ConsentGranted {
		result.Outcome = TaskConsentRevoked
		return result
	}

	templateName, ok := entity.TemplateFor(task.TaskType)
	if !ok {
		result.Outcome = TaskNoTemplate
		return result
	}

	msg, err := send(ctx, SendMessageInput{
		ConversationID: conv.ID,
		ContactID:      contact.ID,
		MessageType:    entity.MessageTypeTemplate,
		TemplateName:   templateName,
		Vars: map[string]string{
			"time": s.reminderTime,
			"link": s.reminderLink,
		},
		Now: now,
	})
	if err != nil {
		result = result.failed(err.Error())
		result.PolicyDenied = errors.Is(err, ErrPolicyDenied)
		return result
	}

	result.Outcome = TaskSent
	result.Message = msg
	return result
}

func (r TaskResult) failed(reason string) TaskResult {
	r.Outcome = TaskSendFailed
	r.Reason = reason
	return r
}

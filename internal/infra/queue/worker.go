package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leadbot/internal/infra/integration/whatsapp"
)

// MessageSender delivers outbound messages to the provider.
type MessageSender interface {
	SendText(ctx context.Context, input whatsapp.SendTextInput) (string, error)
	SendTemplate(ctx context.Context, input whatsapp.SendTemplateInput) (string, error)
}

type Consumer interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Sender  MessageSender
	Logger  *slog.Logger
}

func NewWorker(ch Consumer, sender MessageSender, logger *slog.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
		Logger:  logger,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes. Deliveries
// are acked on success and nacked without requeue otherwise, so failures dead-letter.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("outbound worker started", slog.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("outbound worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queueName)
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload OutboundPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid outbound payload", slog.Any("error", err))
		d.Nack(false, false)
		return
	}

	if err := w.processMessage(ctx, payload); err != nil {
		w.Logger.Error("outbound delivery failed",
			slog.String("conversation_id", payload.ConversationID),
			slog.Any("error", err),
		)
		middleware.RecordIntegrationError("whatsapp")
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, payload OutboundPayload) error {
	switch payload.MessageType {
	case entity.MessageTypeTemplate:
		_, err := w.Sender.SendTemplate(ctx, whatsapp.SendTemplateInput{
			PhoneNumber:  payload.To,
			TemplateName: payload.TemplateName,
			Parameters:   payload.Parameters,
		})
		return err

	case entity.MessageTypeSessionText:
		_, err := w.Sender.SendText(ctx, whatsapp.SendTextInput{
			PhoneNumber: payload.To,
			Body:        payload.Content,
		})
		return err

	default:
		return fmt.Errorf("unknown message type %q", payload.MessageType)
	}
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

// OutboundPayload is one accepted send waiting for delivery.
type OutboundPayload struct {
	ConversationID string             `json:"conversation_id"`
	ContactID      string             `json:"contact_id"`
	To             string             `json:"to"`
	MessageType    entity.MessageType `json:"message_type"`
	TemplateName   string             `json:"template_name,omitempty"`
	Content        string             `json:"content"`
	Parameters     []string           `json:"parameters,omitempty"`
}

func NewOutboundPayload(req usecase.DispatchRequest) OutboundPayload {
	p := OutboundPayload{
		ConversationID: req.Message.ConversationID,
		ContactID:      req.Message.ContactID,
		To:             req.To,
		MessageType:    req.Message.MessageType,
		Content:        req.Message.Content,
		Parameters:     req.Parameters,
	}
	if req.Message.TemplateName != nil {
		p.TemplateName = *req.Message.TemplateName
	}
	return p
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQProducer publishes accepted sends to the outbound exchange.
type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Dispatch(ctx context.Context, req usecase.DispatchRequest) error {
	body, err := json.Marshal(NewOutboundPayload(req))
	if err != nil {
		return fmt.Errorf("encode outbound payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish outbound message: %w", err)
	}
	return nil
}

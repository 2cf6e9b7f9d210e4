package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

var handoverTemplate = template.Must(template.New("handover").Parse(`Ein Lead möchte mit einem Menschen sprechen.

Name:           {{.FirstName}}
WhatsApp:       {{.Phone}}
Kontakt-ID:     {{.ContactID}}
Konversation:   {{.ConversationID}}
Gesprächsstand: {{.State}}

Letzte Nachricht:
{{.LastMessage}}
`))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(cfg config.MailConfig) *EmailSender {
	return &EmailSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
		To:       cfg.HandoverTo,
	}
}

// Configured reports whether an SMTP host and a handover inbox are set.
func (s *EmailSender) Configured() bool {
	return s.Host != "" && s.To != ""
}

// NotifyHandover mails the sales inbox that a conversation was handed to a human.
func (s *EmailSender) NotifyHandover(ctx context.Context, contact entity.Contact, conv entity.Conversation, lastMessage string) error {
	m, err := s.buildHandoverMessage(contact, conv, lastMessage)
	if err != nil {
		return err
	}
	return s.send(ctx, gomail.NewDialer(s.Host, s.Port, s.User, s.Password), m)
}

func (s *EmailSender) buildHandoverMessage(contact entity.Contact, conv entity.Conversation, lastMessage string) (*gomail.Message, error) {
	data := HandoverEmailData{
		FirstName:      contact.FirstName,
		Phone:          contact.WhatsAppE164,
		ContactID:      contact.ID,
		ConversationID: conv.ID,
		State:          string(conv.State),
		LastMessage:    lastMessage,
	}

	var body bytes.Buffer
	if err := handoverTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render handover email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Übergabe: %s (%s) möchte einen Berater", contact.FirstName, contact.WhatsAppE164))
	m.SetBody("text/plain", body.String())
	return m, nil
}

func (s *EmailSender) send(ctx context.Context, d dialer, m *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send handover email: %w", err)
	}
	return nil
}

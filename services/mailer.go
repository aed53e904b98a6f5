package services

import (
	"context"
	"fmt"
	"time"

	"checkout-service/attachments"
	"checkout-service/models"
	"checkout-service/sender"

	"go.uber.org/zap"
)

// PlanMailer emails the purchased document to a buyer.
type PlanMailer interface {
	SendPlan(ctx context.Context, recipient string) (*Delivery, error)
}

type Delivery struct {
	MessageID  string
	Attachment string
	SentAt     time.Time
}

type MailTemplate struct {
	Subject string
	Body    string
}

type planMailer struct {
	source   attachments.Source
	sender   sender.EmailSender
	template MailTemplate
	logger   *zap.Logger
}

func NewPlanMailer(source attachments.Source, s sender.EmailSender, template MailTemplate, logger *zap.Logger) PlanMailer {
	return &planMailer{
		source:   source,
		sender:   s,
		template: template,
		logger:   logger,
	}
}

// SendPlan reads the attachment before touching the relay, so a missing
// document never opens a connection.
func (m *planMailer) SendPlan(ctx context.Context, recipient string) (*Delivery, error) {
	att, err := m.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plan attachment: %w", err)
	}

	res, err := m.sender.Send(ctx, &models.EmailMessage{
		To:         recipient,
		Subject:    m.template.Subject,
		BodyText:   m.template.Body,
		Attachment: att,
	})
	if err != nil {
		return nil, fmt.Errorf("send plan to %s: %w", recipient, err)
	}

	m.logger.Info("plan email sent",
		zap.String("email", recipient),
		zap.String("message_id", res.MessageID),
		zap.String("attachment", att.Filename),
	)

	return &Delivery{MessageID: res.MessageID, Attachment: att.Filename, SentAt: res.SentAt}, nil
}

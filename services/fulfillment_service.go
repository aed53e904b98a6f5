package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/providers"

	"go.uber.org/zap"
)

// ContactFailurePolicy controls what a failed mailing-list upsert does to
// the success callback.
type ContactFailurePolicy string

const (
	// ContactFailureIgnore logs the failure and still delivers the plan.
	ContactFailureIgnore ContactFailurePolicy = "ignore"
	// ContactFailureFail aborts the callback with 500.
	ContactFailureFail ContactFailurePolicy = "fail"
)

// ParseContactFailurePolicy maps a config value to a policy.
func ParseContactFailurePolicy(v string) (ContactFailurePolicy, error) {
	switch p := ContactFailurePolicy(v); p {
	case ContactFailureIgnore, ContactFailureFail:
		return p, nil
	case "":
		return ContactFailureIgnore, nil
	default:
		return "", fmt.Errorf("unknown contact failure policy %q", v)
	}
}

// EventPublisher announces completed deliveries to other systems.
type EventPublisher interface {
	PublishFulfillment(ctx context.Context, event models.FulfillmentEvent) error
}

type snsEventPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

// NewSNSEventPublisher publishes events as JSON to topicArn.
func NewSNSEventPublisher(client aws_pkg.SNSPublisher, topicArn string) EventPublisher {
	return &snsEventPublisher{client: client, topicArn: topicArn}
}

func (p *snsEventPublisher) PublishFulfillment(ctx context.Context, event models.FulfillmentEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal fulfillment event: %w", err)
	}
	return p.client.Publish(ctx, p.topicArn, b)
}

// FulfillmentService handles the buyer's return from a completed payment.
type FulfillmentService interface {
	Fulfill(ctx context.Context, email, requestID string) *ServiceError
}

type FulfillmentOptions struct {
	CampaignID string
	Policy     ContactFailurePolicy
}

type fulfillmentServiceImpl struct {
	guard     DeliveryGuard
	contacts  providers.MailingListProvider
	mailer    PlanMailer
	publisher EventPublisher
	metrics   MetricsRecorder
	opts      FulfillmentOptions
	logger    *zap.Logger
	now       func() time.Time
}

// NewFulfillmentService wires the success flow. guard defaults to
// AllowAllGuard; publisher and metrics may be nil.
func NewFulfillmentService(
	guard DeliveryGuard,
	contacts providers.MailingListProvider,
	mailer PlanMailer,
	publisher EventPublisher,
	metrics MetricsRecorder,
	opts FulfillmentOptions,
	logger *zap.Logger,
) FulfillmentService {
	if guard == nil {
		guard = AllowAllGuard{}
	}
	if opts.Policy == "" {
		opts.Policy = ContactFailureIgnore
	}
	return &fulfillmentServiceImpl{
		guard:     guard,
		contacts:  contacts,
		mailer:    mailer,
		publisher: publisher,
		metrics:   metrics,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Fulfill upserts the buyer as a contact and mails the plan. The redirect
// is trusted as is: no payment proof is checked here.
func (s *fulfillmentServiceImpl) Fulfill(ctx context.Context, email, requestID string) *ServiceError {
	admitted, err := s.guard.Admit(ctx, email)
	if err != nil {
		s.logger.Error("delivery guard failed", zap.String("email", email), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError}
	}
	if !admitted {
		s.logger.Info("delivery skipped by guard", zap.String("email", email))
		return nil
	}

	contact := models.NewContact(email, s.opts.CampaignID)
	if err := s.contacts.UpsertContact(ctx, contact); err != nil {
		recordCount(s.metrics, aws_pkg.MetricContactUpsertFailed)
		if s.opts.Policy == ContactFailureFail {
			s.logger.Error("contact upsert failed", zap.String("email", email), zap.Error(err))
			return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to register contact"}
		}
		s.logger.Warn("contact upsert failed, continuing", zap.String("email", email), zap.Error(err))
	}

	delivery, err := s.mailer.SendPlan(ctx, email)
	if err != nil {
		recordCount(s.metrics, aws_pkg.MetricPlanDeliveryFailed)
		s.logger.Error("plan delivery failed", zap.String("email", email), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError}
	}
	recordCount(s.metrics, aws_pkg.MetricPlansDelivered)

	s.publish(ctx, models.FulfillmentEvent{
		Type:           models.TypePlanDelivered,
		Email:          email,
		ContactName:    contact.Name,
		AttachmentName: delivery.Attachment,
		RequestID:      requestID,
		Timestamp:      s.now().UTC(),
	})

	return nil
}

func (s *fulfillmentServiceImpl) publish(ctx context.Context, event models.FulfillmentEvent) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.PublishFulfillment(pubCtx, event); err != nil {
		s.logger.Warn("failed to publish fulfillment event", zap.String("email", event.Email), zap.Error(err))
	}
}

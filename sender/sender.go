package sender

import (
	"context"
	"errors"
	"time"

	"checkout-service/models"
)

// ErrAuthRejected is returned when the relay refuses the configured credentials.
var ErrAuthRejected = errors.New("smtp authentication rejected")

// ErrInsecureRelay is returned when the relay cannot provide an encrypted,
// authenticated session: STARTTLS or AUTH is missing from its extensions.
var ErrInsecureRelay = errors.New("smtp relay does not offer a secure authenticated session")

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	Send(ctx context.Context, msg *models.EmailMessage) (SendResult, error)
}

package providers

import (
	"context"
	"fmt"

	"checkout-service/models"
)

// PaymentProvider creates hosted checkout sessions.
type PaymentProvider interface {
	// CreateCheckoutSession registers a one-off payment and returns the
	// session the buyer is redirected to.
	CreateCheckoutSession(ctx context.Context, params *models.CheckoutSessionParams) (*models.PaymentSession, error)
}

// MailingListProvider adds buyers to a marketing list.
type MailingListProvider interface {
	// UpsertContact adds the contact to its list. A contact that is already
	// subscribed is not an error.
	UpsertContact(ctx context.Context, contact models.Contact) error
}

// APIError is returned when a provider answers with a non-success status.
// Message is the provider's own human-readable explanation.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

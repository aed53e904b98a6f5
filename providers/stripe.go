package providers

import (
	"context"
	"errors"
	"fmt"

	"checkout-service/models"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// StripeProvider implements PaymentProvider with Stripe Checkout.
type StripeProvider struct {
	client *session.Client
}

// NewStripeProvider builds a provider on the default Stripe API backend.
// A non-empty apiURL points the client at another host, e.g. stripe-mock.
// Each checkout makes exactly one API call; the SDK's network retries are off.
func NewStripeProvider(secretKey, apiURL string, logger stripe.LeveledLoggerInterface) *StripeProvider {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	if logger != nil {
		cfg.LeveledLogger = logger
	}
	return NewStripeProviderWithBackend(secretKey, stripe.GetBackendWithConfig(stripe.APIBackend, cfg))
}

func NewStripeProviderWithBackend(secretKey string, backend stripe.Backend) *StripeProvider {
	return &StripeProvider{client: &session.Client{B: backend, Key: secretKey}}
}

func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, p *models.CheckoutSessionParams) (*models.PaymentSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
					UnitAmount: stripe.Int64(p.UnitAmount),
				},
				Quantity: stripe.Int64(p.Quantity),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := s.client.New(params)
	if err != nil {
		return nil, toAPIError(err)
	}

	return &models.PaymentSession{ID: sess.ID, URL: sess.URL}, nil
}

func toAPIError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &APIError{
			Provider:   "stripe",
			StatusCode: stripeErr.HTTPStatusCode,
			Message:    stripeErr.Msg,
			Err:        err,
		}
	}
	return fmt.Errorf("stripe create checkout session: %w", err)
}

package services

import (
	"context"
	"net/http"
	"net/url"

	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/providers"

	"go.uber.org/zap"
)

// CheckoutService turns a purchase request into a hosted payment session.
type CheckoutService interface {
	CreateSession(ctx context.Context, req *models.CheckoutRequest) (*models.PaymentSession, *ServiceError)
}

type CheckoutOptions struct {
	Currency      string
	PublicBaseURL string
}

type checkoutServiceImpl struct {
	provider providers.PaymentProvider
	opts     CheckoutOptions
	metrics  MetricsRecorder
	logger   *zap.Logger
}

func NewCheckoutService(provider providers.PaymentProvider, opts CheckoutOptions, metrics MetricsRecorder, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		provider: provider,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
	}
}

// CreateSession always sells exactly one unit in the configured currency.
// The price and product name are passed through as given; the provider is
// the one that rejects bad values.
func (s *checkoutServiceImpl) CreateSession(ctx context.Context, req *models.CheckoutRequest) (*models.PaymentSession, *ServiceError) {
	params := &models.CheckoutSessionParams{
		ProductName:   req.ProductName,
		CustomerEmail: req.Email,
		Currency:      s.opts.Currency,
		UnitAmount:    req.Price,
		Quantity:      1,
		SuccessURL:    s.opts.PublicBaseURL + "/success?email=" + url.QueryEscape(req.Email),
		CancelURL:     s.opts.PublicBaseURL + "/cancel",
		Metadata:      map[string]string{"product": req.ProductName},
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Warn("checkout session creation failed",
			zap.String("product", req.ProductName),
			zap.Int64("price", req.Price),
			zap.Error(err),
		)
		recordCount(s.metrics, aws_pkg.MetricCheckoutSessionsFailed)
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("product", req.ProductName),
	)
	recordCount(s.metrics, aws_pkg.MetricCheckoutSessionsCreated)
	return sess, nil
}

package models

// CheckoutRequest is the body accepted by POST /create-checkout-session.
// Fields are deliberately left unvalidated here; the payment provider
// rejects incomplete requests.
type CheckoutRequest struct {
	ProductName string `json:"product_name"`
	Email       string `json:"email"`
	Price       int64  `json:"price"` // smallest currency unit (cents)
}

// CheckoutSessionParams is the one-item purchase handed to the payment provider.
type CheckoutSessionParams struct {
	ProductName   string
	CustomerEmail string
	Currency      string // lowercase ISO 4217, e.g. "eur"
	UnitAmount    int64
	Quantity      int64
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// PaymentSession is the provider-issued handle for one checkout attempt.
type PaymentSession struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

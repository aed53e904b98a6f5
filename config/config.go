package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. It is
// loaded once at startup; components receive copies of the values they need.
//
// Credentials are not checked for presence here: a missing key surfaces on
// the first external call that needs it.
type Config struct {
	Port          string `validate:"required,numeric"`
	Env           string
	PublicBaseURL string `validate:"required,url"`

	StripeSecretKey string
	StripeAPIURL    string `validate:"omitempty,url"` // optional backend override, used against stripe-mock
	Currency        string `validate:"len=3,alpha"`

	GetResponseAPIKey     string
	GetResponseCampaignID string
	GetResponseBaseURL    string `validate:"required,url"`

	SenderEmail     string `validate:"omitempty,email"`
	SenderPassword  string
	SenderName      string
	SMTPHost        string `validate:"required,hostname_rfc1123"`
	SMTPPort        int    `validate:"min=1,max=65535"`
	SMTPImplicitTLS bool
	MailSubject     string
	MailBody        string

	AttachmentPath     string `validate:"required"`
	AttachmentS3Bucket string
	AttachmentS3Key    string

	SuccessMessage       string
	CancelMessage        string
	ContactFailurePolicy string `validate:"oneof=ignore fail"`

	FulfillmentTopicARN   string
	AllowedOrigins        []string `validate:"dive,url,startswith=http"`
	CheckoutRatePerMinute int      `validate:"min=0"`

	UseSecretsManager   bool
	CloudWatchEnabled   bool
	CloudWatchLogGroup  string
	CloudWatchNamespace string
}

const ServiceName = "checkout-service"

// Secret names looked up when AWS_USE_SECRETS=true.
const (
	SecretStripeKey      = "checkout/STRIPE_SECRET_KEY"
	SecretGetResponseKey = "checkout/GETRESPONSE_API_KEY"
	SecretSenderPassword = "checkout/SENDER_PASSWORD"
)

var validate = validator.New()

// SecretGetter is satisfied by pkg/aws.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// LoadConfig reads a .env file when one exists and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q", os.Getenv("SMTP_PORT"))
	}

	ratePerMinute, err := strconv.Atoi(getEnv("CHECKOUT_RATE_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_RATE_PER_MINUTE %q", os.Getenv("CHECKOUT_RATE_PER_MINUTE"))
	}

	implicitTLS, err := strconv.ParseBool(getEnv("MAIL_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_SECURE %q", os.Getenv("MAIL_SECURE"))
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("APP_ENV", "development"),
		PublicBaseURL: strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		StripeAPIURL:    os.Getenv("STRIPE_API_URL"),
		Currency:        strings.ToLower(getEnv("CHECKOUT_CURRENCY", "eur")),

		GetResponseAPIKey:     os.Getenv("GETRESPONSE_API_KEY"),
		GetResponseCampaignID: os.Getenv("GETRESPONSE_CAMPAIGN_ID"),
		GetResponseBaseURL:    strings.TrimSuffix(getEnv("GETRESPONSE_BASE_URL", "https://api.getresponse.com/v3"), "/"),

		SenderEmail:     os.Getenv("SENDER_EMAIL"),
		SenderPassword:  os.Getenv("SENDER_PASSWORD"),
		SenderName:      os.Getenv("SENDER_NAME"),
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        smtpPort,
		SMTPImplicitTLS: implicitTLS,
		MailSubject:     getEnv("MAIL_SUBJECT", "Your training plan"),
		MailBody:        getEnv("MAIL_BODY", "Thank you for your purchase! Your plan is attached as a PDF."),

		AttachmentPath:     getEnv("ATTACHMENT_PATH", "static/plans/plan_trainings.pdf"),
		AttachmentS3Bucket: os.Getenv("ATTACHMENT_S3_BUCKET"),
		AttachmentS3Key:    os.Getenv("ATTACHMENT_S3_KEY"),

		SuccessMessage:       getEnv("SUCCESS_MESSAGE", "Payment successful! Your plan PDF has been sent to your email."),
		CancelMessage:        getEnv("CANCEL_MESSAGE", "Payment cancelled. You have not been charged."),
		ContactFailurePolicy: strings.ToLower(getEnv("CONTACT_FAILURE_POLICY", "ignore")),

		FulfillmentTopicARN:   os.Getenv("FULFILLMENT_SNS_TOPIC_ARN"),
		AllowedOrigins:        splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		CheckoutRatePerMinute: ratePerMinute,

		UseSecretsManager:   os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/checkout/services"),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Checkout"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether verbose diagnostics should be turned off.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ApplySecrets overrides credentials with values from sm. Secrets that are
// missing or empty keep the environment value.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) {
	if v, err := sm.GetSecret(ctx, SecretStripeKey); err == nil && v != "" {
		c.StripeSecretKey = v
	}
	if v, err := sm.GetSecret(ctx, SecretGetResponseKey); err == nil && v != "" {
		c.GetResponseAPIKey = v
	}
	if v, err := sm.GetSecret(ctx, SecretSenderPassword); err == nil && v != "" {
		c.SenderPassword = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// splitOrigins parses ALLOWED_ORIGINS. "*" or an empty value means any origin.
func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "*" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}

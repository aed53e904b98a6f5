package config_test

import (
	"context"
	"errors"
	"testing"

	"checkout-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CHECKOUT_CURRENCY", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("MAIL_SECURE", "")
	t.Setenv("CONTACT_FAILURE_POLICY", "")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("APP_ENV", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.True(t, cfg.SMTPImplicitTLS)
	assert.Equal(t, "ignore", cfg.ContactFailurePolicy)
	assert.Equal(t, "http://localhost:5000", cfg.PublicBaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingSecretsAreNotAnError(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("GETRESPONSE_API_KEY", "")
	t.Setenv("SENDER_PASSWORD", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.StripeSecretKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CHECKOUT_CURRENCY", "USD")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com/, https://b.example.com")
	t.Setenv("MAIL_SECURE", "false")
	t.Setenv("SMTP_PORT", "587")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "usd", cfg.Currency)
	assert.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SMTPImplicitTLS)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "smtp")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidMailSecure(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	t.Setenv("MAIL_SECURE", "sometimes")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidPolicy(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	t.Setenv("MAIL_SECURE", "")
	t.Setenv("CONTACT_FAILURE_POLICY", "retry")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_PortOutOfRange(t *testing.T) {
	t.Setenv("SMTP_PORT", "70000")
	t.Setenv("MAIL_SECURE", "")
	t.Setenv("CONTACT_FAILURE_POLICY", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidOrigin(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	t.Setenv("MAIL_SECURE", "")
	t.Setenv("CONTACT_FAILURE_POLICY", "")
	t.Setenv("ALLOWED_ORIGINS", "shop.example.com")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_WildcardOrigin(t *testing.T) {
	t.Setenv("SMTP_PORT", "")
	t.Setenv("MAIL_SECURE", "")
	t.Setenv("CONTACT_FAILURE_POLICY", "")
	t.Setenv("ALLOWED_ORIGINS", "*")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.AllowedOrigins)
}

type mapSecrets map[string]string

func (m mapSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestApplySecrets(t *testing.T) {
	cfg := &config.Config{StripeSecretKey: "env-key", GetResponseAPIKey: "env-gr", SenderPassword: "env-pass"}

	cfg.ApplySecrets(context.Background(), mapSecrets{
		config.SecretStripeKey:      "sm-key",
		config.SecretSenderPassword: "",
	})

	assert.Equal(t, "sm-key", cfg.StripeSecretKey)
	assert.Equal(t, "env-gr", cfg.GetResponseAPIKey)
	assert.Equal(t, "env-pass", cfg.SenderPassword)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")
	cfg := Load()
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, 5*time.Minute, cfg.JWT.AccessExpiry)
	require.Equal(t, int64(500), cfg.Services.MinAmount["facebook"])
	require.False(t, cfg.IsProduction())
}

func TestServiceMinAmountsOverride(t *testing.T) {
	t.Setenv("SERVICE_MIN_AMOUNTS", "facebook=900, tiktok=bad,youtube=100")
	cfg := Load()
	require.Equal(t, int64(900), cfg.Services.MinAmount["facebook"])
	require.Equal(t, int64(2000), cfg.Services.MinAmount["tiktok"])
	require.Equal(t, int64(100), cfg.Services.MinAmount["youtube"])
}

func TestValidateRequiresSecretsInProduction(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Env = "development"
	require.NoError(t, cfg.Validate())

	cfg.Server.Env = "production"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	require.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")
	require.Contains(t, err.Error(), "AD_STATUS_WEBHOOK_SECRET")

	cfg.Stripe.SecretKey = "sk_live_x"
	cfg.Stripe.WebhookSecret = "whsec_x"
	err = cfg.Validate()
	require.Error(t, err)
	require.NotContains(t, err.Error(), "STRIPE_SECRET_KEY")
	require.Contains(t, err.Error(), "AD_STATUS_WEBHOOK_SECRET")

	cfg.Webhook.AdStatusSecret = "ad"
	require.NoError(t, cfg.Validate())
}

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const intentEvent = `{
  "id": "evt_1",
  "object": "event",
  "api_version": "2020-08-27",
  "type": "payment_intent.succeeded",
  "data": {"object": {"id": "pi_123", "object": "payment_intent", "amount": 2500, "currency": "usd", "metadata": {"user_id": "9"}}}
}`

func stripeHeader(secret string, body []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), body)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeConstructEvent(t *testing.T) {
	g := NewStripeGateway("sk_test_x", "whsec_test", nil)
	body := []byte(intentEvent)
	sig := stripeHeader("whsec_test", body, time.Now())

	require.True(t, g.VerifyWebhookSignature(body, sig))
	ev, err := g.ConstructEvent(body, sig)
	require.NoError(t, err)
	require.Equal(t, EventIntentSucceeded, ev.Type)
	require.Equal(t, "pi_123", ev.IntentID)
	require.Equal(t, int64(2500), ev.Amount)
	require.Equal(t, "9", ev.Metadata["user_id"])
}

func TestStripeRejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_x", "whsec_test", nil)
	body := []byte(intentEvent)
	sig := stripeHeader("other", body, time.Now())

	require.False(t, g.VerifyWebhookSignature(body, sig))
	_, err := g.ConstructEvent(body, sig)
	require.ErrorIs(t, err, ErrInvalidSignature)

	stale := stripeHeader("whsec_test", body, time.Now().Add(-time.Hour))
	require.False(t, g.VerifyWebhookSignature(body, stale))
}

func TestStubGateway(t *testing.T) {
	g := &StubGateway{Secret: "s"}
	intent, err := g.CreatePaymentIntent(context.Background(), IntentRequest{AmountCents: 100, Currency: "usd"})
	require.NoError(t, err)
	require.NotEmpty(t, intent.ClientSecret)

	body := []byte(intentEvent)
	ev, err := g.ConstructEvent(body, g.Sign(body))
	require.NoError(t, err)
	require.Equal(t, "pi_123", ev.IntentID)

	_, err = g.ConstructEvent(body, "nope")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StubGateway is used when no Stripe key is configured. Intents are local ids
// and webhooks are signed with a hex HMAC-SHA256 of the body.
type StubGateway struct {
	Secret string
}

func (s *StubGateway) CreateCustomer(_ context.Context, _ string, userID uint) (string, error) {
	return fmt.Sprintf("cus_stub_%d", userID), nil
}

func (s *StubGateway) CreatePaymentIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	id := "pi_stub_" + uuid.NewString()
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (s *StubGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(s.Sign(body)))
}

// Sign returns the signature VerifyWebhookSignature expects for body.
func (s *StubGateway) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.Secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ConstructEvent accepts the same event envelope Stripe sends.
func (s *StubGateway) ConstructEvent(body []byte, signature string) (*Event, error) {
	if !s.VerifyWebhookSignature(body, signature) {
		return nil, ErrInvalidSignature
	}
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID       string            `json:"id"`
				Amount   int64             `json:"amount"`
				Currency string            `json:"currency"`
				Metadata map[string]string `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &Event{
		ID:       raw.ID,
		Type:     raw.Type,
		IntentID: raw.Data.Object.ID,
		Amount:   raw.Data.Object.Amount,
		Currency: raw.Data.Object.Currency,
		Metadata: raw.Data.Object.Metadata,
	}, nil
}

package payment

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event types the settlement flow reacts to.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
	EventIntentCanceled  = "payment_intent.canceled"
)

type IntentRequest struct {
	AmountCents    int64
	Currency       string
	CustomerRef    string
	IdempotencyKey string
	Metadata       map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Event is a verified processor webhook reduced to what the wallet needs.
type Event struct {
	ID       string
	Type     string
	IntentID string
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Gateway is the external payment processor.
type Gateway interface {
	CreateCustomer(ctx context.Context, email string, userID uint) (string, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	VerifyWebhookSignature(body []byte, signature string) bool
	ConstructEvent(body []byte, signature string) (*Event, error)
}

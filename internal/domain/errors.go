package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateWallet   = errors.New("wallet already exists for user")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrIntegrity         = errors.New("ledger integrity violation")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrUnknownService    = errors.New("unknown service")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidCampaign   = errors.New("invalid campaign")
	ErrForbidden         = errors.New("forbidden")

	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

// UpstreamError is a failure reported by an external ad-network or payment API.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (http %d)", e.Provider, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// IsUpstream reports whether err wraps an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

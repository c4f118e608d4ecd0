// Package money converts between user-facing major-unit amounts and the
// int64 minor units stored in wallets and ledger entries.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount has more than two decimal places")
)

// ParseMinor parses a major-unit string such as "12.50" into minor units (1250).
// Zero and negative amounts are rejected.
func ParseMinor(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, ErrTooPrecise
	}
	if minor.GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// FormatMinor renders minor units as a fixed two-decimal major-unit string.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// MinorToMicros converts minor units (cents) to the micros used by Google Ads.
func MinorToMicros(minor int64) int64 {
	return minor * 10_000
}

// MinorToMajor returns minor units as a float, for APIs that take budgets as numbers.
func MinorToMajor(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}

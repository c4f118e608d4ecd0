package models

import (
	"time"
)

// Wallet is a user's prepaid balance in minor units. Exactly one per user.
type Wallet struct {
	ID                        uint      `gorm:"primaryKey" json:"id"`
	UserID                    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ExternalPaymentCustomerID *string   `gorm:"size:255" json:"external_payment_customer_id,omitempty"`
	Amount                    int64     `gorm:"not null;default:0" json:"amount"`
	Currency                  string    `gorm:"size:3;default:'usd'" json:"currency"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

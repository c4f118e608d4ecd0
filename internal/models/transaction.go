package models

import (
	"time"
)

// Transaction is an append-only ledger entry. Amount is a positive magnitude;
// Type decides whether it added to or took from the wallet.
// The (order_id, type) unique index allows at most one pay and one refund per order.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	WalletID  uint      `gorm:"not null;index" json:"wallet_id"`
	OrderID   *uint     `gorm:"uniqueIndex:idx_transactions_order_type" json:"order_id,omitempty"`
	Type      string    `gorm:"size:20;not null;index;uniqueIndex:idx_transactions_order_type" json:"type"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Reference string    `gorm:"size:128" json:"reference,omitempty"` // e.g. payment intent id
	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

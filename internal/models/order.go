package models

import (
	"time"
)

// RawJSON is a JSON document stored as text and emitted unquoted.
type RawJSON string

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

func (r *RawJSON) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}
	*r = RawJSON(b)
	return nil
}

// Order is a purchase of an ad-campaign service. Details hold whatever the
// ad network returned for the fulfilled campaign.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ServiceName string    `gorm:"size:50;not null;index" json:"service_name"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Details     RawJSON   `gorm:"type:text" json:"details"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

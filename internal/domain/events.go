package domain

import "time"

// OrderStatusEvent is broadcast whenever an order reaches a new status.
type OrderStatusEvent struct {
	OrderID     uint      `json:"order_id"`
	UserID      uint      `json:"user_id"`
	ServiceName string    `json:"service_name,omitempty"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

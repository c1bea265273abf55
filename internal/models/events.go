package models

import "time"

// Event types
const (
	EventTypeOrderCreated         = "ORDER_CREATED"
	EventTypeOrderStatusChanged   = "ORDER_STATUS_CHANGED"
	EventTypePaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when checkout produces an order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID  string     `json:"order_id"`
	UserID   string     `json:"user_id"`
	UserName string     `json:"user_name"`
	Email    string     `json:"email"`
	Total    int64      `json:"total"`
	Items    []CartLine `json:"items"`
}

// OrderStatusChangedEvent published on every status label change
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	By      string `json:"by"`
}

// PaymentStatusChangedEvent published on every payment label change
type PaymentStatusChangedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	By            string `json:"by"`
}

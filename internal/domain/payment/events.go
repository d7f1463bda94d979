// internal/domain/payment/events.go
package payment

import (
	"context"
	"time"
)

// Routing keys for published payment events
const (
	EventCreated       = "payment.created"
	EventStatusChanged = "payment.status_changed"
	EventDeleted       = "payment.deleted"
)

// Publisher delivers domain events to a message broker
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Event is the JSON body of a published payment event
type Event struct {
	Type       string    `json:"type"`
	PaymentID  string    `json:"paymentId"`
	OrderID    string    `json:"orderId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency,omitempty"`
	Method     Method    `json:"method,omitempty"`
	FromStatus Status    `json:"fromStatus,omitempty"`
	ToStatus   Status    `json:"toStatus,omitempty"`
	Actor      Actor     `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newEvent(eventType string, p *Payment, at time.Time) Event {
	return Event{
		Type:       eventType,
		PaymentID:  p.ID,
		OrderID:    p.OrderID,
		Email:      p.Email,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Method:     p.Method,
		ToStatus:   p.Status,
		OccurredAt: at,
	}
}

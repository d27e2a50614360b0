// Package events defines the messages the API service publishes to RabbitMQ
// and the worker service consumes.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeUserRegistered   = "user.registered"
	TypePaymentConfirmed = "payment.confirmed"
)

// Envelope wraps every published event. Type doubles as the routing key
// suffix (events.<type>).
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// UserRegistered is emitted after a successful registration so the worker can
// send the verification email.
type UserRegistered struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Code   string `json:"code"`
}

// PaymentConfirmed is emitted after a payment is recorded so the worker can
// send a receipt.
type PaymentConfirmed struct {
	PaymentID       string  `json:"payment_id"`
	UserID          string  `json:"user_id"`
	JobID           *string `json:"job_id,omitempty"`
	Chain           string  `json:"chain"`
	TransactionHash string  `json:"transaction_hash"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
}

// Marshal wraps the payload in an Envelope and serializes it.
func Marshal(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
}

// RoutingKey returns the routing key for an event type, e.g.
// "events.payment.confirmed".
func RoutingKey(eventType string) string {
	return "events." + eventType
}

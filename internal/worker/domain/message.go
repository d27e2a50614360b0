package domain

import "github.com/ykrishnateja01/job-portal/internal/events"

// EventMessage pairs a decoded event envelope with its broker delivery tag so
// the worker can ack or nack after processing.
type EventMessage struct {
	Envelope    *events.Envelope
	DeliveryTag uint64
}

// PendingActivation is a confirmed job-posting payment whose job never got
// activated, found by the reconciliation sweep.
type PendingActivation struct {
	PaymentID       string `db:"payment_id"`
	JobID           string `db:"job_id"`
	Chain           string `db:"chain"`
	TransactionHash string `db:"transaction_hash"`
}

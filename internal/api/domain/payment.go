package domain

import "errors"

// Payment statuses. Rejected claims are never persisted, so a stored record
// is confirmed from the moment it exists; pending and failed exist for
// completeness of the status vocabulary.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

var (
	// ErrPaymentAlreadyProcessed means a record for this transaction hash
	// already exists. Raised either by the pre-check or by the unique
	// constraint at insert time; the insert is the authoritative guard.
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")

	ErrPaymentNotFound = errors.New("payment not found")
)

package domain

import (
	"errors"
)

// Application statuses
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusReviewed = "reviewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

var (
	ErrAlreadyApplied      = errors.New("already applied for this job")
	ErrApplicationNotFound = errors.New("application not found")
)

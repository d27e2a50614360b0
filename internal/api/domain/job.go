package domain

import (
	"errors"
)

// Job posting statuses. New jobs start paused and only become active once a
// verified payment activates them.
const (
	JobStatusActive  = "active"
	JobStatusPaused  = "paused"
	JobStatusClosed  = "closed"
	JobStatusExpired = "expired"
)

// Job types
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeFreelance  = "freelance"
	JobTypeInternship = "internship"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNotJobOwner = errors.New("caller does not own the job")
)

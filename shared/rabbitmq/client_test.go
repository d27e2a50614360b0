package rabbitmq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishBackoff(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Duration
		mult     float64
		attempt  int
		expected time.Duration
	}{
		{
			name:     "first retry uses base delay",
			base:     100 * time.Millisecond,
			mult:     2,
			attempt:  0,
			expected: 100 * time.Millisecond,
		},
		{
			name:     "configured multiplier is applied per attempt",
			base:     100 * time.Millisecond,
			mult:     3,
			attempt:  2,
			expected: 900 * time.Millisecond,
		},
		{
			name:     "fractional multiplier",
			base:     200 * time.Millisecond,
			mult:     1.5,
			attempt:  1,
			expected: 300 * time.Millisecond,
		},
		{
			name:     "zero multiplier falls back to doubling",
			base:     100 * time.Millisecond,
			mult:     0,
			attempt:  3,
			expected: 800 * time.Millisecond,
		},
		{
			name:     "multiplier of one falls back to doubling",
			base:     50 * time.Millisecond,
			mult:     1,
			attempt:  1,
			expected: 100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, publishBackoff(tt.base, tt.mult, tt.attempt))
		})
	}
}

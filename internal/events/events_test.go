package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	body, err := Marshal(TypeUserRegistered, UserRegistered{
		UserID: "u-1",
		Name:   "Alice",
		Email:  "alice@example.com",
		Code:   "123456",
	})
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, TypeUserRegistered, envelope.Type)
	assert.False(t, envelope.OccurredAt.IsZero())

	var ev UserRegistered
	require.NoError(t, json.Unmarshal(envelope.Payload, &ev))
	assert.Equal(t, "u-1", ev.UserID)
	assert.Equal(t, "123456", ev.Code)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "events.user.registered", RoutingKey(TypeUserRegistered))
	assert.Equal(t, "events.payment.confirmed", RoutingKey(TypePaymentConfirmed))
}

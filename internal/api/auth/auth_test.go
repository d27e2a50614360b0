package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Generate("user-1", "alice@example.com", "employer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "employer", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenIssuer_Parse(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewTokenIssuer("test-secret", -time.Minute)
				token, err := expired.Generate("user-1", "alice@example.com", "user")
				require.NoError(t, err)
				return token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewTokenIssuer("other-secret", time.Hour)
				token, err := other.Generate("user-1", "alice@example.com", "user")
				require.NoError(t, err)
				return token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "garbage token",
			token: func(t *testing.T) string {
				return "not.a.jwt"
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := NewTokenIssuer("test-secret", time.Hour)
			_, err := issuer.Parse(tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 1000000)

		seen[code] = true
	}
	// 50 draws from a million-value space should not all collide.
	assert.Greater(t, len(seen), 1)
}

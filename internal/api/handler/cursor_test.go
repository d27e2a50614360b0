package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykrishnateja01/job-portal/internal/api/storage"
)

func TestJobCursor_RoundTrip(t *testing.T) {
	original := &storage.JobCursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		JobID:     "8b3e2c1a-0f4d-4e5a-9c7b-2d1e0f9a8b7c",
	}

	encoded, err := EncodeJobCursor(original)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeJobCursor(encoded)
	require.NoError(t, err)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, original.JobID, decoded.JobID)
}

func TestDecodeJobCursor(t *testing.T) {
	t.Run("empty cursor returns nil", func(t *testing.T) {
		cursor, err := DecodeJobCursor("")
		require.NoError(t, err)
		assert.Nil(t, cursor)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := DecodeJobCursor("not-base64!!!")
		assert.Error(t, err)
	})

	t.Run("wrong part count", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("only-one-part"))
		_, err := DecodeJobCursor(encoded)
		assert.Error(t, err)
	})

	t.Run("non-numeric timestamp", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("abc|job-id"))
		_, err := DecodeJobCursor(encoded)
		assert.Error(t, err)
	})
}

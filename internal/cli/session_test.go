package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadSession()
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, SaveSession(Session{
		AccessToken: "tok",
		Email:       "kid@example.com",
		UserID:      "user-1",
	}))

	s, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, "user-1", s.UserID)
	assert.False(t, s.SavedAt.IsZero())

	require.NoError(t, ClearSession())
	_, err = LoadSession()
	require.ErrorIs(t, err, ErrNoSession)

	// Clearing an already-cleared session is not an error.
	require.NoError(t, ClearSession())
}

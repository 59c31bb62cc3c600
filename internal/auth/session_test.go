package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init())

	sessionID := uuid.New()
	token, err := CreateSessionToken(sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.NoError(t, Init())

	_, err := VerifySessionToken("not.a.token")
	assert.Error(t, err)

	// A token signed by a previous key dies with the key rotation.
	token, err := CreateSessionToken(uuid.New())
	require.NoError(t, err)
	require.NoError(t, Init())
	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}

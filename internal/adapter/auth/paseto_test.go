package auth

import (
	"testing"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasetoToken(t *testing.T) {
	tokens, err := New()
	require.NoError(t, err)

	alice, err := tokens.CreateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)
	bob, err := tokens.CreateToken(&domain.User{Username: "bob"})
	require.NoError(t, err)
	assert.NotEqual(t, alice, bob)

	payload, err := tokens.VerifyToken(alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.Username)

	payload, err = tokens.VerifyToken(bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", payload.Username)

	_, err = tokens.VerifyToken("v4.local.garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other, err := New()
	require.NoError(t, err)
	_, err = other.VerifyToken(alice)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Sign("submissions", "preview-images/u1/123-shot.png", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, s.Verify(token, "submissions", "preview-images/u1/123-shot.png"))
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Sign("submissions", "a.png", -time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Verify(token, "submissions", "a.png"), ErrTokenInvalid)
}

func TestSignerRejectsWrongObject(t *testing.T) {
	s := NewSigner("test-secret")

	token, err := s.Sign("submissions", "a.png", time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Verify(token, "submissions", "b.png"), ErrTokenScope)
	assert.ErrorIs(t, s.Verify(token, "avatars", "a.png"), ErrTokenScope)
}

func TestSignerRejectsForeignSignature(t *testing.T) {
	token, err := NewSigner("secret-one").Sign("submissions", "a.png", time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, NewSigner("secret-two").Verify(token, "submissions", "a.png"), ErrTokenInvalid)
}

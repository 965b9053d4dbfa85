package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSignerRoundTrip(t *testing.T) {
	signer := NewURLSigner("test-secret")

	token, err := signer.Sign("user-1/abc.png", "screenshot.png", time.Minute)
	require.NoError(t, err)

	path, name, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1/abc.png", path)
	assert.Equal(t, "screenshot.png", name)
}

func TestURLSignerRejectsExpiredToken(t *testing.T) {
	signer := NewURLSigner("test-secret")

	token, err := signer.Sign("user-1/abc.png", "screenshot.png", -time.Minute)
	require.NoError(t, err)

	_, _, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestURLSignerRejectsForeignToken(t *testing.T) {
	issuer := NewURLSigner("secret-a")
	verifier := NewURLSigner("secret-b")

	token, err := issuer.Sign("user-1/abc.png", "screenshot.png", time.Minute)
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.Error(t, err)
}

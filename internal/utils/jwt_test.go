package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret"
	refreshSecret = "refresh-secret"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	t.Parallel()

	p := AccessPayload{UserID: 42, Username: "admin", Role: "admin"}
	tok, err := NewAccessToken(accessSecret, p, 15)
	require.NoError(t, err)

	got, err := ParseAccessToken(accessSecret, tok)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(accessSecret, AccessPayload{UserID: 1, Username: "u", Role: "regular"}, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(accessSecret, AccessPayload{UserID: 1, Username: "u", Role: "regular"}, -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(accessSecret, tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken(accessSecret, "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	t.Parallel()

	opaque, err := RandomToken(24)
	require.NoError(t, err)

	p := RefreshPayload{UserID: 7, Token: opaque}
	tok, err := NewRefreshToken(refreshSecret, p, 60)
	require.NoError(t, err)

	got, err := ParseRefreshToken(refreshSecret, tok)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestRefreshTokenRejectsAccessSecret(t *testing.T) {
	t.Parallel()

	// The two secrets are independent: a refresh token must not verify
	// under the access secret and vice versa.
	tok, err := NewRefreshToken(refreshSecret, RefreshPayload{UserID: 7, Token: "abc123abc123abc123abc123"}, 60)
	require.NoError(t, err)

	_, err = ParseRefreshToken(accessSecret, tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestControlTokenSharesRefreshSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewControlToken(refreshSecret, 60)
	require.NoError(t, err)

	require.NoError(t, VerifyControlToken(refreshSecret, tok))
	require.ErrorIs(t, VerifyControlToken(accessSecret, tok), ErrInvalidToken)
}

func TestControlTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewControlToken(refreshSecret, -1)
	require.NoError(t, err)

	require.ErrorIs(t, VerifyControlToken(refreshSecret, tok), ErrInvalidToken)
}

func TestRandomToken(t *testing.T) {
	t.Parallel()

	a, err := RandomToken(24)
	require.NoError(t, err)
	require.Len(t, a, 48) // 24 bytes -> 48 hex chars

	b, err := RandomToken(24)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"encoding/hex"  // hex encoding for opaque tokens
	"errors"        // sentinel error for failed verification
	"strconv"       // numeric claim conversion
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by every parse/verify helper when a token is
// malformed, carries a wrong signature or algorithm, or has expired.  The
// callers never need to distinguish those cases, so they are collapsed.
var ErrInvalidToken = errors.New("invalid token")

// AccessPayload is the identity embedded in an access token.  It exists only
// inside the signed token and is never persisted.
type AccessPayload struct {
	UserID   uint64
	Username string
	Role     string
}

// RefreshPayload is embedded in a refresh token.  Token is a random opaque
// string that acts as the lookup key into the refresh_tokens table; it is
// distinct from the user id so that revocation stays precise even when one
// user holds sessions on several devices.
type RefreshPayload struct {
	UserID uint64
	Token  string
}

// NewAccessToken builds and signs an HS256 JWT carrying the access payload.
// The TTL is given in minutes.  Claims: sub (user id), username, role,
// exp and iat.
func NewAccessToken(secret string, p AccessPayload, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      p.UserID,
		"username": p.Username,
		"role":     p.Role,
		"exp":      now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat":      now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewRefreshToken signs an HS256 JWT carrying the refresh payload with the
// refresh secret.  Claims: sub (user id), token (opaque lookup key), exp, iat.
func NewRefreshToken(secret string, p RefreshPayload, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   p.UserID,
		"token": p.Token,
		"exp":   now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewControlToken signs an empty payload with the refresh secret and the
// refresh lifetime.  The control token is delivered as a non-HTTP-only
// cookie so client-side script can tell whether a session may still exist;
// it is never checked against persisted state.
func NewControlToken(secret string, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"exp": now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies signature and expiry with the access secret and
// decodes the access payload.  Any failure yields ErrInvalidToken.
func ParseAccessToken(secret, raw string) (AccessPayload, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return AccessPayload{}, err
	}
	p := AccessPayload{
		UserID:   claimUint64(claims, "sub"),
		Username: claimString(claims, "username"),
		Role:     claimString(claims, "role"),
	}
	if p.UserID == 0 {
		return AccessPayload{}, ErrInvalidToken
	}
	return p, nil
}

// ParseRefreshToken verifies signature and expiry with the refresh secret
// and decodes the refresh payload.  Any failure yields ErrInvalidToken.
func ParseRefreshToken(secret, raw string) (RefreshPayload, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return RefreshPayload{}, err
	}
	p := RefreshPayload{
		UserID: claimUint64(claims, "sub"),
		Token:  claimString(claims, "token"),
	}
	if p.UserID == 0 || p.Token == "" {
		return RefreshPayload{}, ErrInvalidToken
	}
	return p, nil
}

// VerifyControlToken checks signature and expiry of a control token.  The
// control token shares the refresh secret and carries no payload.
func VerifyControlToken(secret, raw string) error {
	_, err := parseHS256(secret, raw)
	return err
}

// parseHS256 parses and validates a JWT, enforcing the HMAC signing method.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func claimUint64(claims jwt.MapClaims, key string) uint64 {
	// JWT numeric values decode as float64.
	switch v := claims[key].(type) {
	case float64:
		return uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// RandomToken returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  It produces the opaque lookup key
// embedded in refresh tokens; n must be at least 16 to guarantee the token
// is unguessable.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

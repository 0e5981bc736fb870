// Package auth implements the session protocol: a triad of access, refresh
// and control tokens issued on login, rotated on refresh and revoked on
// logout.  Refresh tokens are single-use; their opaque lookup key is backed
// by a database record whose consumption is race-free, so a replayed
// refresh token always fails once the legitimate client has rotated it.
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/currency-price-tracker/internal/config"
	"github.com/iliyamo/currency-price-tracker/internal/model"
	"github.com/iliyamo/currency-price-tracker/internal/repository"
	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

// opaqueTokenBytes is the entropy of the random refresh lookup key.
const opaqueTokenBytes = 24

// UserStore is the read-only user lookup surface the session manager needs.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists outstanding refresh-token records.  Consume must be
// race-free per (userID, token): of two concurrent calls for the same pair,
// exactly one succeeds.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, token string, expiresAt int64) error
	Consume(ctx context.Context, userID uint64, token string, now int64) error
	Delete(ctx context.Context, userID uint64, token string) error
}

// Triad bundles the three tokens of one session generation.
type Triad struct {
	Access  string
	Refresh string
	Control string
}

// Manager orchestrates login, refresh and logout on top of the token codec
// and the refresh-token store.
type Manager struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTLMin  int
	RefreshTTLMin int
	Users         UserStore
	Tokens        TokenStore
}

// NewManager builds a Manager from the application config and repositories.
func NewManager(cfg config.Config, users UserStore, tokens TokenStore) *Manager {
	return &Manager{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTLMin:  cfg.AccessTTLMin,
		RefreshTTLMin: cfg.RefreshTTLMin,
		Users:         users,
		Tokens:        tokens,
	}
}

// Login verifies credentials and issues a fresh triad.  The login value is
// matched against username or email, case-insensitively.  Any persistence
// failure aborts the whole login; no partial token set reaches the client.
func (m *Manager) Login(ctx context.Context, login, password string) (Triad, model.PublicUser, error) {
	user, err := m.Users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Triad{}, model.PublicUser{}, ErrBadUsername
		}
		return Triad{}, model.PublicUser{}, serverError("user lookup failed")
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return Triad{}, model.PublicUser{}, ErrBadPassword
	}
	triad, err := m.issueTriad(ctx, user)
	if err != nil {
		return Triad{}, model.PublicUser{}, err
	}
	return triad, user.Public(), nil
}

// Refresh exchanges a still-live refresh token for a new triad.  The checks
// run in a fixed order and the first failure determines the reported reason:
// missing control token (with best-effort revocation, making an interrupted
// logout converge), missing refresh token, control validity, refresh
// validity, user existence, then the single-use record consumption.
func (m *Manager) Refresh(ctx context.Context, controlCookie, refreshCookie string) (Triad, error) {
	if controlCookie == "" {
		// The client dropped its control cookie but still holds a refresh
		// token: a logout whose response was lost.  Finish the job before
		// rejecting so the lingering token cannot be replayed.
		m.revokeBestEffort(ctx, refreshCookie)
		return Triad{}, ErrNoControl
	}
	if refreshCookie == "" {
		return Triad{}, ErrNoRefresh
	}
	if err := utils.VerifyControlToken(m.RefreshSecret, controlCookie); err != nil {
		return Triad{}, ErrBadControl
	}
	payload, err := utils.ParseRefreshToken(m.RefreshSecret, refreshCookie)
	if err != nil {
		return Triad{}, ErrBadRefresh
	}
	user, err := m.Users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Triad{}, ErrUserNotFound
		}
		return Triad{}, serverError("user lookup failed")
	}
	// Single-use rotation: consuming deletes the record, so a replay of the
	// same refresh token finds nothing and fails here.
	now := time.Now().UTC().Unix()
	if err := m.Tokens.Consume(ctx, payload.UserID, payload.Token, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Triad{}, ErrRefreshNotFound
		}
		return Triad{}, serverError("refresh token lookup failed")
	}
	return m.issueTriad(ctx, user)
}

// Logout revokes the refresh token named by the cookie.  Every error is
// swallowed: logout must never fail visibly, even for garbage input.
func (m *Manager) Logout(ctx context.Context, refreshCookie string) {
	m.revokeBestEffort(ctx, refreshCookie)
}

// issueTriad mints the three tokens and persists the refresh record.  The
// record expiry matches the refresh JWT lifetime.
func (m *Manager) issueTriad(ctx context.Context, user model.User) (Triad, error) {
	opaque, err := utils.RandomToken(opaqueTokenBytes)
	if err != nil {
		return Triad{}, serverError("token generation failed")
	}
	access, err := utils.NewAccessToken(m.AccessSecret, utils.AccessPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, m.AccessTTLMin)
	if err != nil {
		return Triad{}, serverError("access token signing failed")
	}
	refresh, err := utils.NewRefreshToken(m.RefreshSecret, utils.RefreshPayload{
		UserID: user.ID,
		Token:  opaque,
	}, m.RefreshTTLMin)
	if err != nil {
		return Triad{}, serverError("refresh token signing failed")
	}
	control, err := utils.NewControlToken(m.RefreshSecret, m.RefreshTTLMin)
	if err != nil {
		return Triad{}, serverError("control token signing failed")
	}
	expiresAt := time.Now().UTC().Unix() + int64(m.RefreshTTLMin)*60
	if err := m.Tokens.Store(ctx, user.ID, opaque, expiresAt); err != nil {
		return Triad{}, serverError("refresh token persistence failed")
	}
	return Triad{Access: access, Refresh: refresh, Control: control}, nil
}

// revokeBestEffort deletes the record matching the refresh cookie's embedded
// identity.  Decode failures and storage failures are swallowed; storage
// failures are logged since a record that should be gone still exists.
func (m *Manager) revokeBestEffort(ctx context.Context, refreshCookie string) {
	if refreshCookie == "" {
		return
	}
	payload, err := utils.ParseRefreshToken(m.RefreshSecret, refreshCookie)
	if err != nil {
		return
	}
	if err := m.Tokens.Delete(ctx, payload.UserID, payload.Token); err != nil {
		log.Printf("auth: best-effort token revocation failed: %v", err)
	}
}

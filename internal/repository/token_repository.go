package repository

import (
	"context"
	"database/sql"
)

// TokenRepo persists outstanding refresh-token records.  Expiry is stored as
// epoch seconds; a row is live only while expires_at is in the future.
// Rotation never mutates a row: the consumed row is deleted and a fresh one
// inserted.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token row.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, token string, expiresAt int64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, expiresAt)
	return err
}

// Consume atomically removes the live record for (userID, token).  The
// conditional delete makes concurrent refreshes of the same token safe:
// exactly one caller observes an affected row, every other caller gets
// ErrNotFound.  Already-expired rows are never consumed.
func (r *TokenRepo) Consume(ctx context.Context, userID uint64, token string, now int64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=? AND token=? AND expires_at>?",
		userID, token, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record for (userID, token) regardless of expiry.
// Deleting an already-gone row is not an error; logout paths rely on that.
func (r *TokenRepo) Delete(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=? AND token=?",
		userID, token)
	return err
}

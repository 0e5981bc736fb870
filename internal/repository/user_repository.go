package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/currency-price-tracker/internal/model"
)

const userColumns = "id,first_name,last_name,username,email,password_hash,role,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new user row and returns it with the generated id.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, username, email, password_hash, role) VALUES (?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// FindByLogin fetches a user whose username OR email equals the given login,
// compared case-insensitively.  Returns ErrNotFound when no user matches.
func (r *UserRepo) FindByLogin(ctx context.Context, login string) (model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username)=? OR LOWER(email)=? LIMIT 1",
		login, login).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// FindByID fetches a user by id.  Returns ErrNotFound when the account no
// longer exists (deleted accounts with still-valid refresh tokens).
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

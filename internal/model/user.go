package model

import "time"

// Role values stored in users.role.  Admins may insert and edit prices;
// regular users get the authenticated read surface.
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository/auth layers;
// handlers respond with PublicUser instead.
//
// Fields:
//
//	ID           - primary key identifier of the user.
//	FirstName    - optional given name.
//	LastName     - optional family name.
//	Username     - unique login name (max 20 chars).
//	Email        - unique email address (max 320 chars).
//	PasswordHash - bcrypt hashed password.
//	Role         - "admin" or "regular".
//	CreatedAt    - timestamp of creation.
//	UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-visible projection of a User with the password
// hash stripped.  Login responses carry this shape.
type PublicUser struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Public returns the user without sensitive fields.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each row is
// the server-side half of one issued refresh token: the random opaque token
// string is embedded in the signed JWT handed to the client, and a refresh
// only succeeds while the matching (user_id, token) row is still live.
// Rotation always deletes the consumed row and inserts a new one; rows are
// never updated in place.
//
// Fields:
//
//	ID        - primary key identifier.
//	UserID    - owner of the token.
//	Token     - random opaque lookup key (also inside the refresh JWT).
//	ExpiresAt - absolute expiry as epoch seconds; rows past it are dead.
//	CreatedAt - timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	ExpiresAt int64
	CreatedAt time.Time
}

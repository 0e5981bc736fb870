package auth

// AuthError carries an HTTP-status-equivalent and two message variants: the
// specific Reason for development and a Generic fallback for production.
// Collapsing "incorrect username" and "incorrect password" into one generic
// message prevents user enumeration through login responses.
type AuthError struct {
	Status  int
	Reason  string
	Generic string
}

func (e *AuthError) Error() string { return e.Reason }

// Message returns the client-facing text: the specific reason in
// development, the generic one in production.
func (e *AuthError) Message(production bool) string {
	if production {
		return e.Generic
	}
	return e.Reason
}

const (
	genericLogin = "incorrect username or password"
	genericToken = "unauthorized"
)

// Authentication failures.  These are package-level instances so handlers
// can branch on them with errors.Is; all map to HTTP 401.
var (
	ErrBadUsername     = &AuthError{Status: 401, Reason: "incorrect username", Generic: genericLogin}
	ErrBadPassword     = &AuthError{Status: 401, Reason: "incorrect password", Generic: genericLogin}
	ErrNoControl       = &AuthError{Status: 401, Reason: "no control token", Generic: genericToken}
	ErrNoRefresh       = &AuthError{Status: 401, Reason: "no refresh token", Generic: genericToken}
	ErrBadControl      = &AuthError{Status: 401, Reason: "invalid control token", Generic: genericToken}
	ErrBadRefresh      = &AuthError{Status: 401, Reason: "invalid refresh token", Generic: genericToken}
	ErrUserNotFound    = &AuthError{Status: 401, Reason: "user not found", Generic: genericToken}
	ErrRefreshNotFound = &AuthError{Status: 401, Reason: "refresh token not found", Generic: genericToken}
)

// serverError wraps a persistence or crypto failure during token issuance.
// These are the only 500s the session manager produces.
func serverError(reason string) *AuthError {
	return &AuthError{Status: 500, Reason: reason, Generic: "internal server error"}
}

package middleware

// identity.go defines helpers shared across middleware files and handlers
// for reading the identity that CheckJWT stored in the Echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

// Identity returns the decoded access payload for the current request and
// whether one is present.  Requests admitted anonymously through the
// allow-public middleware carry no payload.
func Identity(c echo.Context) (utils.AccessPayload, bool) {
	p, ok := c.Get("jwt_payload").(utils.AccessPayload)
	return p, ok
}

// subjectKey returns a stable identifier for rate-limit bucketing: the user
// id when authenticated, otherwise "guest".
func subjectKey(c echo.Context) string {
	if p, ok := Identity(c); ok {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "guest"
}

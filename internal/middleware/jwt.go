package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

// Cookie names shared between middleware and handlers.  They are part of the
// external contract: clients and tests rely on them verbatim.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	ControlCookie = "control_token"
)

// CheckJWT returns an Echo middleware that validates the access/control
// cookie pair and injects the decoded access payload into the request
// context under "jwt_payload" (plus "user_id" and "role" for convenience).
// Requests without a complete, valid cookie pair are rejected with 401.
//
// The verification order is fixed and the first failure determines the
// reported reason: control cookie presence, access cookie presence, control
// token validity, access token validity.  The control token is checked with
// the refresh secret, the access token with its own secret.
func CheckJWT(accessSecret, refreshSecret string, production bool) echo.MiddlewareFunc {
	return checkJWT(accessSecret, refreshSecret, production, false)
}

// CheckJWTAllowPublic behaves like CheckJWT but lets a request through
// anonymously when BOTH cookies are absent.  A request carrying exactly one
// of the two cookies indicates broken client state, not a deliberate
// anonymous call, and is still rejected.
func CheckJWTAllowPublic(accessSecret, refreshSecret string, production bool) echo.MiddlewareFunc {
	return checkJWT(accessSecret, refreshSecret, production, true)
}

func checkJWT(accessSecret, refreshSecret string, production, allowPublic bool) echo.MiddlewareFunc {
	reject := func(c echo.Context, reason string) error {
		msg := reason
		if production {
			msg = "unauthorized"
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			control := cookieValue(c, ControlCookie)
			access := cookieValue(c, AccessCookie)

			if allowPublic && control == "" && access == "" {
				return next(c)
			}
			if control == "" {
				return reject(c, "no control token")
			}
			if access == "" {
				return reject(c, "no access token")
			}
			if err := utils.VerifyControlToken(refreshSecret, control); err != nil {
				return reject(c, "invalid control token")
			}
			payload, err := utils.ParseAccessToken(accessSecret, access)
			if err != nil {
				return reject(c, "invalid access token")
			}

			c.Set("jwt_payload", payload)
			c.Set("user_id", payload.UserID)
			c.Set("role", payload.Role)
			return next(c)
		}
	}
}

// cookieValue reads a cookie, returning "" when absent.
func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

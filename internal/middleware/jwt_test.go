package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

const (
	accessSecret  = "access-secret"
	refreshSecret = "refresh-secret"
)

func request(t *testing.T, cookies map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/price/BTC", nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func validCookies(t *testing.T) map[string]string {
	t.Helper()
	access, err := utils.NewAccessToken(accessSecret, utils.AccessPayload{UserID: 5, Username: "alice", Role: "regular"}, 15)
	require.NoError(t, err)
	control, err := utils.NewControlToken(refreshSecret, 60)
	require.NoError(t, err)
	return map[string]string{AccessCookie: access, ControlCookie: control}
}

func run(t *testing.T, mw echo.MiddlewareFunc, cookies map[string]string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	c, rec := request(t, cookies)
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return c, rec, called
}

func TestCheckJWTValidPair(t *testing.T) {
	t.Parallel()

	mw := CheckJWT(accessSecret, refreshSecret, false)
	c, rec, called := run(t, mw, validCookies(t))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	p, ok := Identity(c)
	require.True(t, ok)
	require.Equal(t, uint64(5), p.UserID)
	require.Equal(t, "regular", p.Role)
}

func TestCheckJWTPresenceOrder(t *testing.T) {
	t.Parallel()

	mw := CheckJWT(accessSecret, refreshSecret, false)

	// No cookies: the control token is reported missing first.
	_, rec, called := run(t, mw, nil)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "no control token")

	// Control present, access missing.
	cookies := validCookies(t)
	delete(cookies, AccessCookie)
	_, rec, called = run(t, mw, cookies)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "no access token")
}

func TestCheckJWTInvalidTokens(t *testing.T) {
	t.Parallel()

	mw := CheckJWT(accessSecret, refreshSecret, false)

	cookies := validCookies(t)
	cookies[ControlCookie] = "garbage"
	_, rec, called := run(t, mw, cookies)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "invalid control token")

	cookies = validCookies(t)
	cookies[AccessCookie] = "garbage"
	_, rec, called = run(t, mw, cookies)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "invalid access token")
}

func TestCheckJWTSwappedSecrets(t *testing.T) {
	t.Parallel()

	// An access token signed with the refresh secret must not pass.
	mw := CheckJWT(accessSecret, refreshSecret, false)
	forged, err := utils.NewAccessToken(refreshSecret, utils.AccessPayload{UserID: 5, Username: "alice", Role: "regular"}, 15)
	require.NoError(t, err)

	cookies := validCookies(t)
	cookies[AccessCookie] = forged
	_, rec, called := run(t, mw, cookies)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "invalid access token")
}

func TestCheckJWTProductionHidesReason(t *testing.T) {
	t.Parallel()

	mw := CheckJWT(accessSecret, refreshSecret, true)
	_, rec, called := run(t, mw, nil)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "unauthorized")
	require.NotContains(t, rec.Body.String(), "control")
}

func TestAllowPublicAnonymousPassesThrough(t *testing.T) {
	t.Parallel()

	mw := CheckJWTAllowPublic(accessSecret, refreshSecret, false)
	c, rec, called := run(t, mw, nil)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := Identity(c)
	require.False(t, ok)
}

func TestAllowPublicPartialCookieSetRejected(t *testing.T) {
	t.Parallel()

	mw := CheckJWTAllowPublic(accessSecret, refreshSecret, false)

	// Only the access cookie: broken client state, not an anonymous
	// request, so it must not be waved through.
	cookies := validCookies(t)
	delete(cookies, ControlCookie)
	_, rec, called := run(t, mw, cookies)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "no control token")

	// Only the control cookie.
	cookies = validCookies(t)
	delete(cookies, AccessCookie)
	_, rec, called = run(t, mw, cookies)
	require.False(t, called)
	require.Contains(t, rec.Body.String(), "no access token")
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	chain := func(cookies map[string]string, roles ...string) (*httptest.ResponseRecorder, bool) {
		c, rec := request(t, cookies)
		called := false
		h := CheckJWT(accessSecret, refreshSecret, false)(
			RequireRole(roles...)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			}))
		require.NoError(t, h(c))
		return rec, called
	}

	rec, called := chain(validCookies(t), "regular", "admin")
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, called = chain(validCookies(t), "admin")
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

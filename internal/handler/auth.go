package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/auth"
	"github.com/iliyamo/currency-price-tracker/internal/config"
	"github.com/iliyamo/currency-price-tracker/internal/middleware"
	"github.com/iliyamo/currency-price-tracker/internal/validator"
)

// AuthHandler exposes the session endpoints: login, refresh, logout.  The
// handler owns the cookie contract; the session manager owns the protocol.
type AuthHandler struct {
	Cfg      config.Config
	Sessions *auth.Manager
}

func NewAuthHandler(cfg config.Config, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Sessions: sessions}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and plants the session cookies: HTTP-only
// access and refresh tokens plus the script-readable control token.  The
// response body is the user record without its password hash.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validator.ValidateLogin(req.Username, req.Password); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	triad, user, err := h.Sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		return h.authFailure(c, err)
	}

	h.setSessionCookies(c, triad)
	return c.JSON(http.StatusOK, user)
}

// Refresh rotates the session: the presented refresh token is consumed and a
// completely new triad is planted.  When the control cookie is missing the
// session manager finishes the interrupted logout and the stale access and
// refresh cookies are cleared client-side.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	control := cookieValue(c, middleware.ControlCookie)
	refresh := cookieValue(c, middleware.RefreshCookie)

	triad, err := h.Sessions.Refresh(ctx, control, refresh)
	if err != nil {
		if errors.Is(err, auth.ErrNoControl) {
			h.clearCookie(c, middleware.AccessCookie)
			h.clearCookie(c, middleware.RefreshCookie)
		}
		return h.authFailure(c, err)
	}

	h.setSessionCookies(c, triad)
	return c.NoContent(http.StatusOK)
}

// Logout revokes the refresh token and clears all three cookies.  It never
// fails from the client's point of view, even when the token is already
// invalid or gone; calling it twice is harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	h.Sessions.Logout(ctx, cookieValue(c, middleware.RefreshCookie))

	h.clearCookie(c, middleware.AccessCookie)
	h.clearCookie(c, middleware.RefreshCookie)
	h.clearCookie(c, middleware.ControlCookie)
	return c.NoContent(http.StatusOK)
}

// authFailure maps a session-manager error onto an HTTP response, gating the
// message detail by production mode.
func (h *AuthHandler) authFailure(c echo.Context, err error) error {
	var ae *auth.AuthError
	if errors.As(err, &ae) {
		return c.JSON(ae.Status, echo.Map{"error": ae.Message(h.Cfg.Production())})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// setSessionCookies plants the triad.  Access and refresh tokens are
// HTTP-only; the control token must stay readable by client-side script so
// it can detect session intent.  Cookie lifetimes follow the token
// lifetimes, the access cookie being the short one.
func (h *AuthHandler) setSessionCookies(c echo.Context, t auth.Triad) {
	h.setCookie(c, middleware.AccessCookie, t.Access, h.Cfg.AccessTTLMin*60, true)
	h.setCookie(c, middleware.RefreshCookie, t.Refresh, h.Cfg.RefreshTTLMin*60, true)
	h.setCookie(c, middleware.ControlCookie, t.Control, h.Cfg.RefreshTTLMin*60, false)
}

// Secure is set unconditionally: browsers reject SameSite=None cookies
// that are not also Secure, so gating it on environment would make the
// cookies disappear in any cross-site dev setup.
func (h *AuthHandler) setCookie(c echo.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// cookieValue reads a request cookie, returning "" when absent.
func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

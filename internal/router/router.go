package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/config"
	"github.com/iliyamo/currency-price-tracker/internal/handler"
	"github.com/iliyamo/currency-price-tracker/internal/middleware"
	"github.com/iliyamo/currency-price-tracker/internal/model"
)

// RegisterRoutes registers routes that carry no authentication at all.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /auth.  The limiter is
// applied to login only: refresh and logout are already gated by possession
// of valid cookies.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/login", a.Login, limiter)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterMarket registers the currency and price endpoints.
//
// The currency list is public and cacheable.  Price reads are public too but
// run through the allow-public JWT middleware so authenticated callers get
// record ids; since the response depends on the caller's identity these
// routes are not fronted by the shared cache.  Price mutations require a
// full session plus an accepted role.
func RegisterMarket(e *echo.Echo, cur *handler.CurrencyHandler, pr *handler.PriceHandler, cfg config.Config, cache echo.MiddlewareFunc) {
	authPublic := middleware.CheckJWTAllowPublic(cfg.AccessSecret, cfg.RefreshSecret, cfg.Production())
	authOnly := middleware.CheckJWT(cfg.AccessSecret, cfg.RefreshSecret, cfg.Production())
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleRegular)

	e.GET("/currency", cur.List, cache)

	p := e.Group("/price")
	p.GET("/:symbol", pr.List, authPublic)
	p.GET("/:symbol/last", pr.Last, authPublic)
	p.POST("/:symbol", pr.Create, authOnly, anyRole)
	p.PATCH("/:id", pr.Edit, authOnly, anyRole)
}

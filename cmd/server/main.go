package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/currency-price-tracker/internal/auth"
	"github.com/iliyamo/currency-price-tracker/internal/config"
	"github.com/iliyamo/currency-price-tracker/internal/database"
	"github.com/iliyamo/currency-price-tracker/internal/handler"
	"github.com/iliyamo/currency-price-tracker/internal/middleware"
	"github.com/iliyamo/currency-price-tracker/internal/model"
	"github.com/iliyamo/currency-price-tracker/internal/queue"
	"github.com/iliyamo/currency-price-tracker/internal/repository"
	"github.com/iliyamo/currency-price-tracker/internal/router"
	"github.com/iliyamo/currency-price-tracker/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxConns:        cfg.DBMaxConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	currencies := repository.NewCurrencyRepo(db)
	prices := repository.NewPriceRepo(db)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	seedAdmin(seedCtx, users, cfg)
	seedCancel()

	sessions := auth.NewManager(cfg, users, tokens)

	// Redis is optional; nil disables rate limiting and response caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, sessions), limiter)
	router.RegisterMarket(e, handler.NewCurrencyHandler(currencies), handler.NewPriceHandler(currencies, prices), cfg, cache)

	// Background consumer for price.inserted events; reconnects on its own.
	go queue.StartPriceConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the initial admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no such user exists yet.  There is no
// self-service signup; accounts are managed out of band.
func seedAdmin(ctx context.Context, users *repository.UserRepo, cfg config.Config) {
	if cfg.AdminUser == "" || cfg.AdminPass == "" {
		return
	}
	_, err := users.FindByLogin(ctx, cfg.AdminUser)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("admin seed: lookup failed: %v", err)
		return
	}
	hash, err := utils.HashPassword(cfg.AdminPass, cfg.BcryptCost)
	if err != nil {
		log.Printf("admin seed: hashing failed: %v", err)
		return
	}
	email := cfg.AdminEmail
	if email == "" {
		email = cfg.AdminUser + "@localhost"
	}
	if _, err := users.Create(ctx, model.User{
		Username:     cfg.AdminUser,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}); err != nil {
		log.Printf("admin seed: insert failed: %v", err)
		return
	}
	log.Printf("admin seed: created account %q", cfg.AdminUser)
}

package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/library-service/internal/bootstrap"
	"github.com/library-service/internal/config"
	"github.com/library-service/internal/database"
	"github.com/library-service/internal/handler"
	"github.com/library-service/internal/logger"
	"github.com/library-service/internal/middleware"
	"github.com/library-service/internal/queue"
	"github.com/library-service/internal/repository"
	"github.com/library-service/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	zl := logger.New("library-service", cfg.LogLevel)
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(db, "migrations"); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter/cache fail open

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	copies := repository.NewCopyRepo(db)
	loans := repository.NewLoanRepo(db)
	audit := repository.NewAuditRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrap.EnsureSuperuser(ctx, cfg, users); err != nil {
		cancel()
		zl.Fatal("superuser seeding failed", zap.Error(err))
	}
	cancel()

	// Persists audit events published by the handlers. Runs its own
	// reconnect loop for the lifetime of the process.
	go func() {
		if err := queue.StartAuditConsumer(audit, zl); err != nil {
			zl.Error("audit consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authn := middleware.Authenticate(cfg.JWTSecret, users, zl)
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e)
	router.RegisterUsers(e, handler.NewAuthHandler(cfg, users, zl), authn)
	router.RegisterBooks(e,
		handler.NewBookHandler(books, copies, zl, cacheCfg, rdb),
		handler.NewLoanHandler(cfg, books, copies, loans, zl),
		authn, cache)

	addr := ":" + cfg.Port
	zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

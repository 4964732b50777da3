package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/otakulog/otakulog/db"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/config"
	"github.com/otakulog/otakulog/internal/handlers"
	"github.com/otakulog/otakulog/internal/logger"
	"github.com/otakulog/otakulog/internal/middleware"
	"github.com/otakulog/otakulog/internal/router"
	"github.com/otakulog/otakulog/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	zlog := logger.Get()

	if cfg.UsingDevSecret {
		zlog.Warn("JWT_SECRET not set, using the development secret")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.ConnectDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}
	defer db.Close(gdb)

	if err := db.MigrateDatabase(gdb); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := connectRedis(cfg.RedisURL, zlog)
	if rdb != nil {
		defer rdb.Close()
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		zlog.Fatal("Failed to create token service", zap.Error(err))
	}

	cookies := auth.CookieConfig{
		Domain: cfg.CookieDomain,
		Secure: cfg.IsProduction(),
	}

	broadcaster := services.NewBroadcaster(rdb, zlog.Named("events"))
	origins := cfg.Origins()

	h := handlers.New(handlers.Config{
		DB:          gdb,
		Tokens:      tokens,
		Cookies:     cookies,
		Catalog:     catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout),
		CatalogURL:  cfg.CatalogBaseURL,
		Redis:       rdb,
		Broadcaster: broadcaster,
		Origins:     origins,
		Logger:      zlog.Named("handlers"),
	})

	r := router.NewRouter(router.Options{
		Handler: h,
		Session: middleware.Session(tokens, cookies),
		Origins: origins,
		Logger:  zlog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go broadcaster.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		zlog.Info("Starting otakulog", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("database", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; live
// updates then stay within this process.
func connectRedis(url string, zlog *zap.Logger) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		zlog.Warn("Invalid REDIS_URL, live updates stay local", zap.Error(err))
		return nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Warn("Redis initialization failed, live updates stay local", zap.Error(err))
		rdb.Close()
		return nil
	}

	zlog.Info("Redis connected successfully", zap.String("addr", opts.Addr))
	return rdb
}

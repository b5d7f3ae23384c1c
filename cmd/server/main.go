package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diewo77/go-directory/internal/config"
	"github.com/diewo77/go-directory/internal/db"
	"github.com/diewo77/go-directory/internal/ratelimit"
	"github.com/diewo77/go-directory/internal/server"
	"github.com/diewo77/go-directory/internal/services/imagegen"
	"github.com/diewo77/go-directory/internal/services/mailer"
	"github.com/diewo77/go-directory/internal/services/otp"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.App))

	if cfg.App.IsProduction() && cfg.Auth.SessionSecret == "devsessionsecret" {
		fatal("SESSION_SECRET must be set in production")
	}

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		fatal("database connection failed", "err", err)
	}

	if *migrateOnlyFlag {
		if err := db.MigrateSchema(dbConn, cfg.Database, cfg.App.Migrations, os.Getenv("MIGRATIONS_DIR")); err != nil {
			fatal("migration failed", "err", err)
		}
		slog.Info("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			fatal("seeding failed", "err", err)
		}
		slog.Info("seeding completed")
		return
	}

	if err := db.MigrateSchema(dbConn, cfg.Database, cfg.App.Migrations, os.Getenv("MIGRATIONS_DIR")); err != nil {
		fatal("migration failed", "err", err)
	}
	slog.Info("migrations completed", "sql", cfg.App.Migrations)
	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			fatal("seeding failed", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := server.Deps{
		DB:     dbConn,
		Config: cfg,
		Mailer: mailer.New(cfg.SMTP),
		Images: imagegen.New(cfg.AI),
	}
	if rdb := connectRedis(ctx, cfg.Redis); rdb != nil {
		defer rdb.Close()
		deps.OTP = otp.NewRedisStore(rdb, cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
		deps.LoginLimiter = ratelimit.NewRedis(rdb, "login", cfg.Auth.LoginRatePerMin, time.Minute)
		deps.EnquiryLimiter = ratelimit.NewRedis(rdb, "enquiry", cfg.App.EnquiryRatePerMin, time.Minute)
		deps.ImageLimiter = ratelimit.NewRedis(rdb, "image", cfg.AI.RatePerMin, time.Minute)
	} else {
		login := ratelimit.NewMemory(cfg.Auth.LoginRatePerMin, time.Minute)
		enquiry := ratelimit.NewMemory(cfg.App.EnquiryRatePerMin, time.Minute)
		image := ratelimit.NewMemory(cfg.AI.RatePerMin, time.Minute)
		for _, l := range []*ratelimit.Memory{login, enquiry, image} {
			go l.Janitor(ctx, 5*time.Minute)
		}
		deps.LoginLimiter, deps.EnquiryLimiter, deps.ImageLimiter = login, enquiry, image
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.New(deps),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	cancel()
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("server stopped gracefully")
}

// connectRedis returns nil when REDIS_URL is unset or the server does not
// answer, in which case OTP codes and rate limits stay in process memory.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("invalid REDIS_URL, using in-memory stores", "err", err)
		return nil
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unavailable, using in-memory stores", "addr", opts.Addr, "err", err)
		_ = rdb.Close()
		return nil
	}
	slog.Info("connected to redis", "addr", opts.Addr)
	return rdb
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(app.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if app.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

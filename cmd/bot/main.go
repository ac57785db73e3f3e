package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/database"
	"github.com/veilchat/veilchat/internal/dto"
	"github.com/veilchat/veilchat/internal/handlers"
	"github.com/veilchat/veilchat/internal/logging"
	"github.com/veilchat/veilchat/internal/middleware"
	"github.com/veilchat/veilchat/internal/routes"
	"github.com/veilchat/veilchat/internal/services"
	"github.com/veilchat/veilchat/internal/transport/telegram"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN environment variable is required")
		os.Exit(1)
	}
	if cfg.OwnerID == 0 {
		slog.Error("OWNER_ID environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, 30, cleanupDone)

	// Redis (report/support counter cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Warn("redis unreachable, counter cache degraded to DB-only", "error", err)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Services
	profileService := services.NewProfileService(database.DB, cfg.ReferralPremiumCount, cfg.PremiumDays)
	moderationService := services.NewModerationService(database.DB, rdb)
	banService := services.NewBanService(database.DB)

	// Chat engine
	policy := chat.Policy{
		OwnerID:         cfg.OwnerID,
		WarningLimit:    cfg.WarningLimit,
		TempBanDuration: time.Duration(cfg.TempBanHours) * time.Hour,
		ReportThreshold: cfg.ReportThreshold,
		SupportOverride: cfg.SupportOverride,
	}
	filter := chat.NewFilter(chat.BannedPhrases)
	engine := chat.NewEngine(policy, filter, profileService, moderationService, banService, nil)

	// Telegram transport
	bot, err := telegram.New(cfg, engine, profileService)
	if err != nil {
		slog.Error("telegram bot init failed", "error", err)
		os.Exit(1)
	}
	engine.SetTransport(bot)

	if err := engine.LoadBans(); err != nil {
		slog.Error("ban registry restore failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	engine.StartSweeper(ctx, cfg.BanSweepInterval)
	go bot.Run(ctx)

	// Fiber app (ops / moderation panel)
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg,
		handlers.NewAuthHandler(cfg),
		handlers.NewHealthHandler(engine),
		handlers.NewModerationHandler(moderationService, engine, time.Duration(cfg.TempBanHours)*time.Hour),
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("admin API starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("admin API failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("admin API shutdown error", "error", err)
	}
	if err := rdb.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

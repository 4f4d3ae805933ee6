package main

import (
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
	"github.com/leetuiux/leetuiux-backend/internal/assets"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
	"github.com/leetuiux/leetuiux-backend/internal/config"
	"github.com/leetuiux/leetuiux-backend/internal/database"
	"github.com/leetuiux/leetuiux-backend/internal/handlers"
	"github.com/leetuiux/leetuiux-backend/internal/logging"
	"github.com/leetuiux/leetuiux-backend/internal/middleware"
	"github.com/leetuiux/leetuiux-backend/internal/modules"
	"github.com/leetuiux/leetuiux-backend/internal/modules/badges"
	"github.com/leetuiux/leetuiux-backend/internal/modules/challenges"
	"github.com/leetuiux/leetuiux-backend/internal/modules/comments"
	"github.com/leetuiux/leetuiux-backend/internal/modules/notifications"
	"github.com/leetuiux/leetuiux-backend/internal/modules/submissions"
	"github.com/leetuiux/leetuiux-backend/internal/routes"
	"github.com/leetuiux/leetuiux-backend/internal/services"
	"github.com/leetuiux/leetuiux-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
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

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
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
	logging.StartCleanup(database.DB, cleanupDone)

	// Object storage: FTP-backed blobs, JWT-signed URLs, Redis URL cache
	blob := storage.NewFTPClient(cfg.FTPHost, cfg.FTPPort, cfg.FTPUser, cfg.FTPPassword)
	signer := storage.NewSigner(cfg.JWTSecret)
	urlCache := storage.NewURLCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	storageService := storage.NewService(database.DB, blob, signer, urlCache, cfg.StorageBaseURL)

	if err := storageService.EnsureContainer(cfg.DefaultContainer, false); err != nil {
		slog.Error("failed to ensure default container", "error", err)
		os.Exit(1)
	}

	resolver := assets.NewResolver(storageService, cfg.SignedURLDisplayTTL)
	sessions := auth.NewSessionBus()

	// Services
	authService := services.NewAuthService(database.DB, cfg, sessions)

	// Feature modules
	mods := []modules.Module{
		challenges.New(),
		submissions.New(),
		comments.New(),
		badges.New(),
		notifications.New(),
	}

	// Migrate module models
	for _, m := range mods {
		if modelList := m.Models(); len(modelList) > 0 {
			if err := database.MigrateModels(modelList); err != nil {
				slog.Error("module migration failed", "module", m.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("module migrated", "module", m.ID(), "models", len(modelList))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	storageHandler := handlers.NewStorageHandler(storageService, cfg.SignedURLDisplayTTL)

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

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	deps := &modules.Deps{
		DB:       database.DB,
		Cfg:      cfg,
		Storage:  storageService,
		Resolver: resolver,
		Sessions: sessions,
	}
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, storageHandler, mods, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := blob.Close(); err != nil {
		slog.Error("blob store close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
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

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/database"
	"github.com/fixmyblock/fixmyblock-backend/internal/enrich"
	"github.com/fixmyblock/fixmyblock-backend/internal/handlers"
	"github.com/fixmyblock/fixmyblock-backend/internal/logging"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/ai"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/blocks"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/engagement"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/events"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/leaderboard"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/profile"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/reports"
	"github.com/fixmyblock/fixmyblock-backend/internal/routes"
	"github.com/fixmyblock/fixmyblock-backend/internal/services"
	"github.com/fixmyblock/fixmyblock-backend/internal/storage"
	"github.com/fixmyblock/fixmyblock-backend/internal/vision"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database (Postgres, or the embedded SQLite fallback for local runs)
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Photo storage: creation of reports requires it, everything else degrades
	photoStore, err := storage.NewPhotoStore(cfg)
	if err != nil {
		slog.Warn("photo storage unavailable", "error", err)
		photoStore = nil
	}

	// Vision + enrichment pipeline
	visionClient := vision.NewClient(cfg)
	enrichService := enrich.NewService(database.DB, visionClient)
	enrichWorker := enrich.NewWorker(enrichService, cfg.EnrichQueueSize)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	scoreService := blocks.NewScoreService(database.DB, civic.DefaultNeedScoreConfig())
	reportService := reports.NewService(database.DB, photoStore, enrichWorker, scoreService)
	blockService := blocks.NewBlockService(database.DB, scoreService, reportService)
	engagementService := engagement.NewService(database.DB, scoreService, cfg.VerifiedThreshold)
	leaderboardService := leaderboard.NewService(database.DB)
	profileService := profile.NewService(database.DB, reportService)

	// Feature modules
	mods := []modules.Module{
		reports.New(reportService),
		blocks.New(blockService),
		engagement.New(engagementService),
		leaderboard.New(leaderboardService),
		profile.New(profileService),
		events.New(),
		ai.New(visionClient, enrichService),
	}

	// Migrate module models
	for _, m := range mods {
		if models := m.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("module migration failed", "module", m.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("module migrated", "module", m.ID(), "models", len(models))
		}
	}

	// Seed blocks and events on first boot
	if err := database.Seed(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()

	// Background workers
	enrichWorker.Start()
	refresherDone := make(chan struct{})
	scoreService.StartRefresher(cfg.NeedScoreInterval, refresherDone)

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
		BodyLimit:    12 * 1024 * 1024,
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
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, mods)

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

	close(refresherDone)
	enrichWorker.Stop()
	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

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

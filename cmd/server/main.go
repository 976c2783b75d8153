package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/iwork-app/iwork-backend/internal/adapter/auth"
	"github.com/iwork-app/iwork-backend/internal/adapter/cache"
	"github.com/iwork-app/iwork-backend/internal/adapter/store"
	"github.com/iwork-app/iwork-backend/internal/handler"
	"github.com/iwork-app/iwork-backend/internal/middleware"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/service"
	"github.com/iwork-app/iwork-backend/internal/token"
	"github.com/iwork-app/iwork-backend/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting IWork Backend",
		"port", cfg.Port,
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	if err := pgStore.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// ── Session cache ────────────────────────────────────────────────────
	// A bad Redis URL is fatal; a dead Redis is not. The auth core degrades
	// to signature-only refresh validation when the cache is unreachable.
	sessionCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis url", "error", err)
		os.Exit(1)
	}
	defer sessionCache.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	var googleAuth port.OAuthProvider
	if cfg.GoogleClientID != "" {
		googleAuth = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	} else {
		slog.Warn("google oauth not configured, /auth/google routes disabled")
	}

	codec := token.NewCodec([]byte(cfg.SecretKey), cfg.AccessTTL, cfg.RefreshTTL)

	// ── Services ─────────────────────────────────────────────────────────
	authz := service.NewAuthz(pgStore)
	authService := service.NewAuthService(pgStore, sessionCache, codec, googleAuth)
	companyService := service.NewCompanyService(pgStore)
	reviewService := service.NewReviewService(pgStore, pgStore, authz)
	salaryService := service.NewSalaryService(pgStore, pgStore, authz)
	settingsService := service.NewSettingsService(pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.Audit(pgStore))

	// ── Public Routes ────────────────────────────────────────────────────
	public := app.Group("/api/v1")

	authHandler := handler.NewAuthHandler(authService, cfg.FrontendURL)
	companyHandler := handler.NewCompanyHandler(companyService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	salaryHandler := handler.NewSalaryHandler(salaryService)

	authHandler.Register(public)
	companyHandler.Register(public)
	reviewHandler.Register(public)
	salaryHandler.Register(public)

	// Health check
	public.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.RequireAuth(authService))

	authHandler.RegisterProtected(api)
	companyHandler.RegisterProtected(api)
	reviewHandler.RegisterProtected(api)
	salaryHandler.RegisterProtected(api)
	handler.NewSettingsHandler(settingsService).Register(api)
	handler.NewAuditHandler(pgStore).Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

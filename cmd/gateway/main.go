package main

import (
	"fmt"
	"time"

	"restaurant-floor/internal/common/config"
	"restaurant-floor/internal/common/health"
	"restaurant-floor/internal/common/logger"
	"restaurant-floor/internal/common/middleware"
	"restaurant-floor/internal/gateway/handlers"
	"restaurant-floor/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load("3000")

	log := logger.Must(cfg.LogLevel, cfg.LogFormat, "gateway")
	defer log.Sync()

	floorplan := proxy.New(cfg.FloorplanURL, "/api/v1", log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.ForEnv(cfg.IsDevelopment(), log))

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	health.Register(app, floorplan.Ping)

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(handlers.DefaultSpecPath))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")
	api.Get("/", handlers.Index)

	// Floor Plan Service
	api.All("/layouts", floorplan.Handler())
	api.All("/layouts/*", floorplan.Handler())

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting api gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("floorplan", cfg.FloorplanURL),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

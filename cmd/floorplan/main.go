package main

import (
	"context"
	"fmt"
	"time"

	"restaurant-floor/internal/common/config"
	"restaurant-floor/internal/common/health"
	"restaurant-floor/internal/common/logger"
	"restaurant-floor/internal/common/middleware"
	"restaurant-floor/internal/floorplan/snap"
	"restaurant-floor/internal/layout/handlers"
	"restaurant-floor/internal/layout/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Floor Plan Service
// ============================================================

func main() {
	cfg := config.Load("3003")

	log := logger.Must(cfg.LogLevel, cfg.LogFormat, "floorplan")
	defer log.Sync()

	db, err := repository.OpenSQLite(cfg.LayoutDBPath)
	if err != nil {
		log.Fatal("open db", zap.String("path", cfg.LayoutDBPath), zap.Error(err))
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatal("init db", zap.Error(err))
	}

	layoutHandler := handlers.NewLayoutHandler(repo, snap.NewEngine(), cfg.CellPx, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Floor Plan Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.ForEnv(cfg.IsDevelopment(), log))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, repo.Ping)

	// ============================================================
	// Layout Routes
	// ============================================================

	layoutHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting floor plan service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("db", cfg.LayoutDBPath),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

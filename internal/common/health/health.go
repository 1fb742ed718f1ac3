package health

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Check зависимость, без которой сервис не готов (БД, upstream).
type Check func(ctx context.Context) error

// Register вешает /health/live, /health/ready и /health/startup.
func Register(r fiber.Router, checks ...Check) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", ReadinessProbe(checks...))
	r.Get("/health/startup", StartupProbe)
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готовность обрабатывать запросы: все проверки должны пройти.
func ReadinessProbe(checks ...Check) fiber.Handler {
	return func(c fiber.Ctx) error {
		for _, check := range checks {
			if err := check(c.Context()); err != nil {
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "not ready",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cardwise/cardwise/internal/service"
)

// HealthHandler reports source availability and the in-process API counters.
func HealthHandler(reconciler *service.Reconciler, metrics *service.APIMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"database": reconciler.DatabaseConfigured(),
			"seed":     reconciler.SeedAvailable(),
			"metrics":  metrics.Snapshot(),
		})
	}
}

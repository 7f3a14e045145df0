package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cardwise/cardwise/internal/service"
)

// MetricsMiddleware counts every request against its matched route.
func MetricsMiddleware(metrics *service.APIMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.Record(route, status, time.Since(start))

		return err
	}
}

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"notes-api/app"
)

// Health reports whether the store is reachable.
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := a.Repo.Ping(ctx); err != nil {
			a.Metrics.SetServiceHealth(false)
			a.Logger.Warn("health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}

		a.Metrics.SetServiceHealth(true)
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

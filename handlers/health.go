package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/database"
	"github.com/yarmel/photoshare/utils/response"
)

// HandleCheckHealth reports liveness plus database reachability
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable,
				"Database unreachable", "SERVICE_UNAVAILABLE")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// handlers/checkin.go - Check-in endpoint
package handlers

import (
	"hackportal/middleware"
	"hackportal/services"

	"github.com/gofiber/fiber/v2"
)

// Checkin applies a GATE or HALL transition.
// POST /api/checkin
func Checkin(c *fiber.Ctx) error {
	var req services.CheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.TeamID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Team ID is required",
		})
	}

	// Default the audit trail to the scanning volunteer's account
	if req.HandledBy == "" {
		if username, err := middleware.GetUsername(c); err == nil {
			req.HandledBy = username
		}
	}

	team, err := checkinService.Checkin(req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

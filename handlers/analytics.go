// handlers/analytics.go - Aggregate views for the admin dashboard
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetAnalytics returns the hourly timeline, college and track distributions.
// GET /api/analytics
func GetAnalytics(c *fiber.Ctx) error {
	report, err := analyticsService.Report()
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"timeline": report.Timeline,
		"colleges": report.Colleges,
		"tracks":   report.Tracks,
	})
}

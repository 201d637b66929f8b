// handlers/admin.go - Admin batch operations
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GenerateQRCodes regenerates QR images for every team with a token.
// POST /api/admin/generate-qr
func GenerateQRCodes(c *fiber.Ctx) error {
	count, err := qrService.GenerateAll()
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"generated": count,
	})
}

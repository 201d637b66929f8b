// handlers/common.go - Handler wiring and error-to-status mapping
package handlers

import (
	"errors"
	"log"

	"hackportal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	db               *gorm.DB
	teamService      *services.TeamService
	checkinService   *services.CheckinService
	analyticsService *services.AnalyticsService
	qrService        *services.QRService
)

// Init wires the handler package to its services. Called once at startup
// with the owned database handle.
func Init(database *gorm.DB, qr *services.QRService) {
	db = database
	qrService = qr
	teamService = services.NewTeamService(database, qr)
	checkinService = services.NewCheckinService(database)
	analyticsService = services.NewAnalyticsService(database)
}

// fail maps a service error to its HTTP status and the standard error
// envelope. Internal errors are logged and reported generically.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == 500 {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func statusFor(err error) int {
	var conflict *services.AlreadyCheckedInError
	switch {
	case errors.As(err, &conflict), errors.Is(err, services.ErrTeamExists):
		return 409
	case errors.Is(err, services.ErrTeamNotFound):
		return 404
	case errors.Is(err, services.ErrInvalidToken):
		return 403
	case errors.Is(err, services.ErrInvalidCredentials):
		return 401
	case errors.Is(err, services.ErrGateNotCompleted),
		errors.Is(err, services.ErrInvalidCheckpoint),
		errors.Is(err, services.ErrMissingFields):
		return 400
	default:
		return 500
	}
}

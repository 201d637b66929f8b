// handlers/teams.go - Team Registry HTTP Handlers
package handlers

import (
	"bytes"
	"encoding/csv"

	"hackportal/services"

	"github.com/gofiber/fiber/v2"
)

// GetTeams lists teams with optional search and check-in filters.
// GET /api/teams?search=&gate=&hall=
func GetTeams(c *fiber.Ctx) error {
	filter := services.ListTeamsFilter{
		Search: c.Query("search"),
		Gate:   boolFilter(c.Query("gate")),
		Hall:   boolFilter(c.Query("hall")),
	}

	teams, err := teamService.List(filter)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"teams":   teams,
		"count":   len(teams),
	})
}

// GetTeam retrieves one team by its external ID.
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Missing team ID",
		})
	}

	team, err := teamService.Get(id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// CreateTeam registers a new team and renders its QR code.
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	var req services.CreateTeamInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	team, err := teamService.Create(req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// UpdateTeam applies a partial update, including the attendance override
// used by the admin attendance editor.
// PUT /api/teams
func UpdateTeam(c *fiber.Ctx) error {
	var req services.UpdateTeamInput
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

	team, err := teamService.Update(req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// DeleteTeam removes a single team.
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Missing team ID",
		})
	}

	if err := teamService.Delete(id); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team deleted successfully",
	})
}

// WipeTeams deletes every team and all check-in logs. The admin UI asks for
// double confirmation before calling this.
// DELETE /api/teams
func WipeTeams(c *fiber.Ctx) error {
	if err := teamService.WipeAll(); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "All teams and logs deleted",
	})
}

// ExportTeams streams the team/attendance listing as CSV.
// GET /api/teams/export?search=&gate=&hall=
func ExportTeams(c *fiber.Ctx) error {
	filter := services.ListTeamsFilter{
		Search: c.Query("search"),
		Gate:   boolFilter(c.Query("gate")),
		Hall:   boolFilter(c.Query("hall")),
	}

	rows, err := teamService.ExportRows(filter)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="teams_export.csv"`)
	return c.Send(buf.Bytes())
}

// boolFilter parses "true"/"false" query values; anything else means unset.
func boolFilter(val string) *bool {
	switch val {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

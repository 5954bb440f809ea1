package games

import (
	"time"

	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

// ExportSpinAudit returns the deserialized audit trail for the caller's spins
// in a time range. Defaults to the last 30 days.
func ExportSpinAudit(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return helpers.JSONError(c, "INVALID_FROM_TIMESTAMP")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return helpers.JSONError(c, "INVALID_TO_TIMESTAMP")
		}
		to = parsed
	}

	records, err := services.ExportSpinAudit(database.DB, user.ID, from, to)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Audit records retrieved", records)
}

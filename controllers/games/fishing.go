package games

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

func CastLine(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	result, err := services.CastLine(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	message := "The fish got away"
	if result.Success {
		message = "You caught a fish"
	}
	return helpers.JSONSuccess(c, message, result)
}

func FishingRod(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var rod models.FishingRod
	if err := database.DB.Where(models.FishingRod{UserID: user.ID}).
		FirstOrCreate(&rod).Error; err != nil {
		return helpers.ServiceError(c, err)
	}
	if rod.Level == 0 {
		rod.Level = 1
	}

	return helpers.JSONSuccess(c, "Rod retrieved", rod)
}

type BuyBaitRequest struct {
	BaitID uint `json:"bait_id"`
}

func BuyBait(c *fiber.Ctx) error {
	var req BuyBaitRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.BaitID == 0 {
		return helpers.JSONError(c, "BAIT_ID_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	activated, err := services.BuyBait(database.DB, user.ID, req.BaitID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Bait activated", activated)
}

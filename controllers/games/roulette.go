package games

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

func SpinRoulette(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	result, err := services.SpinRoulette(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	message := "Better luck next time"
	if !result.Fail {
		message = "You won a prize"
	}
	return helpers.JSONSuccess(c, message, result)
}

func RouletteHistory(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var rows []models.SpinHistory
	if err := database.DB.Preload("Prize.Item").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(50).
		Find(&rows).Error; err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "Spin history retrieved", rows)
}

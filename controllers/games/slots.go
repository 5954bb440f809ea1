package games

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

func SpinSlots(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	result, err := services.SpinSlots(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	message := "Spin settled"
	if result.IsJackpot {
		message = "JACKPOT!"
	}
	return helpers.JSONSuccess(c, message, result)
}

func SlotJackpot(c *fiber.Ctx) error {
	var cfg models.SlotMachineConfig
	if err := database.DB.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "Jackpot retrieved", fiber.Map{
		"jackpot_amount": cfg.JackpotAmount,
		"cost_per_spin":  cfg.CostPerSpin,
	})
}

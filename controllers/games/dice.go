package games

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

type PlayDiceRequest struct {
	BetType   string `json:"bet_type"`
	BetValue  int    `json:"bet_value"`
	BetAmount int64  `json:"bet_amount"`
}

func PlayDice(c *fiber.Ctx) error {
	var req PlayDiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	result, err := services.PlayDice(database.DB, user.ID, &services.DicePlayRequest{
		BetType:   req.BetType,
		BetValue:  req.BetValue,
		BetAmount: req.BetAmount,
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	message := "You lost"
	if result.Won {
		message = "You won"
	}
	return helpers.JSONSuccess(c, message, result)
}

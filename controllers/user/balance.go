package user

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func CheckUserBalance(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	fichas, err := services.Balance(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	var wallet models.Wallet
	saldo := decimal.Zero
	if err := database.DB.Where("user_id = ?", user.ID).First(&wallet).Error; err == nil {
		saldo = wallet.Saldo
	}

	return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
		"user_code": user.UserCode,
		"fichas":    fichas,
		"saldo":     saldo,
	})
}

func ReconcileBalance(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	balance, err := services.Reconcile(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "Balance reconciled", fiber.Map{
		"user_code": user.UserCode,
		"fichas":    balance,
	})
}

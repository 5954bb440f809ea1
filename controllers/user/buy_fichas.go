package user

import (
	"fmt"
	"os"

	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BuyFichasRequest struct {
	Amount int64 `json:"amount"`
}

// fichaPrice is the wallet cost of one ficha, overridable per deployment.
func fichaPrice() decimal.Decimal {
	if raw := os.Getenv("FICHA_PRICE"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil && price.IsPositive() {
			return price
		}
	}
	return decimal.NewFromInt(1)
}

func BuyFichas(c *fiber.Ctx) error {
	var req BuyFichasRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Amount <= 0 {
		return helpers.JSONError(c, "AMOUNT_MUST_BE_POSITIVE")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	cost := fichaPrice().Mul(decimal.NewFromInt(req.Amount))

	var fichas int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := services.WalletDebit(tx, user.ID, cost,
			"Wallet", "Ficha shop", fmt.Sprintf("Purchase of %d fichas", req.Amount)); err != nil {
			return err
		}
		updated, err := services.Credit(tx, user.ID, req.Amount, "shop", "Ficha purchase")
		if err != nil {
			return err
		}
		fichas = updated.Fichas
		return nil
	})
	if err != nil {
		return helpers.ServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "Fichas purchased successfully", fiber.Map{
		"user_code": user.UserCode,
		"amount":    req.Amount,
		"cost":      cost,
		"fichas":    fichas,
	})
}

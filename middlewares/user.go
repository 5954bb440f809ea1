package middlewares

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"

	"github.com/gofiber/fiber/v2"
)

func UserAuthMiddleware(c *fiber.Ctx) error {
	userCode := c.Get("X-User-Code")

	if userCode == "" {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "USER_CODE_REQUIRED")
	}

	var user models.User
	if err := database.DB.Where("user_code = ? AND is_active = true", userCode).First(&user).Error; err != nil {
		return helpers.JSONErrorStatus(c, fiber.StatusUnauthorized, "INVALID_USER_CREDENTIALS")
	}

	c.Locals("user", user)
	return c.Next()
}

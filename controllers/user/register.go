package user

import (
	"strings"

	"arcade/database"
	"arcade/helpers"
	"arcade/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterUserRequest struct {
	UserCode string `json:"user_code"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest

	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	userCode := strings.ToLower(strings.TrimSpace(req.UserCode))
	if userCode == "" {
		return helpers.JSONError(c, "USER_CODE_REQUIRED")
	}

	var existing models.User
	if err := database.DB.Where("user_code = ?", userCode).First(&existing).Error; err == nil {
		return helpers.JSONError(c, "USER_ALREADY_EXISTS")
	}

	user := models.User{
		UserCode: userCode,
		Fichas:   0,
		IsActive: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_REGISTER_USER")
	}

	return helpers.JSONSuccess(c, "User registered successfully", fiber.Map{
		"user_code": user.UserCode,
		"fichas":    user.Fichas,
	})
}

package games

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

func ListBoxTypes(c *fiber.Ctx) error {
	var types []models.BoxType
	if err := database.DB.Order("price").Find(&types).Error; err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Box types retrieved", types)
}

func MyBoxes(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var boxes []models.Box
	if err := database.DB.Preload("BoxType").Preload("Items.Item").
		Where("user_id = ?", user.ID).Find(&boxes).Error; err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Boxes retrieved", boxes)
}

type BuyBoxRequest struct {
	BoxTypeID uint `json:"box_type_id"`
}

func BuyBox(c *fiber.Ctx) error {
	var req BuyBoxRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.BoxTypeID == 0 {
		return helpers.JSONError(c, "BOX_TYPE_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	box, err := services.BuyBox(database.DB, user.ID, req.BoxTypeID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Box purchased successfully", fiber.Map{
		"box_id": box.ID,
	})
}

type OpenBoxRequest struct {
	BoxID uint `json:"box_id"`
}

func OpenBox(c *fiber.Ctx) error {
	var req OpenBoxRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.BoxID == 0 {
		return helpers.JSONError(c, "BOX_ID_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	result, err := services.OpenBox(database.DB, user.ID, req.BoxID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Box opened", result)
}

type ResetBoxRequest struct {
	BoxID uint `json:"box_id"`
}

func ResetBox(c *fiber.Ctx) error {
	var req ResetBoxRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.BoxID == 0 {
		return helpers.JSONError(c, "BOX_ID_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	if err := services.ResetBox(database.DB, user.ID, req.BoxID); err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Box reset successfully", fiber.Map{
		"box_id": req.BoxID,
	})
}

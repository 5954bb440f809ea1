package battlepass

import (
	"arcade/database"
	"arcade/helpers"
	"arcade/models"
	"arcade/services"

	"github.com/gofiber/fiber/v2"
)

// Pass and Quests are the process-wide progression services; the scheduler
// reaches them for cache invalidation and quest sweeps.
var (
	Pass   = services.NewBattlePass(services.NewExpiringCache(), nil)
	Quests = services.NewQuestTracker(Pass)
)

func Status(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	summary, err := Pass.Summary(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Battle pass status retrieved", summary)
}

func BuyPremium(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	if err := Pass.BuyPremium(database.DB, user.ID); err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Premium pass activated", nil)
}

type ClaimRewardRequest struct {
	RewardID uint `json:"reward_id"`
}

func ClaimReward(c *fiber.Ctx) error {
	var req ClaimRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.RewardID == 0 {
		return helpers.JSONError(c, "REWARD_ID_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	if err := Pass.ClaimReward(database.DB, user.ID, req.RewardID); err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Reward claimed", fiber.Map{
		"reward_id": req.RewardID,
	})
}

func ListQuests(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	statuses, err := Quests.ListQuests(database.DB, user.ID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Quests retrieved", statuses)
}

type CompleteQuestRequest struct {
	QuestID uint `json:"quest_id"`
}

func CompleteQuest(c *fiber.Ctx) error {
	var req CompleteQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.QuestID == 0 {
		return helpers.JSONError(c, "QUEST_ID_REQUIRED")
	}

	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	xp, err := Quests.CompleteQuest(database.DB, user.ID, req.QuestID)
	if err != nil {
		return helpers.ServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "Quest completed", xp)
}

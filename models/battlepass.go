package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BattlePassSeason struct {
	gorm.Model

	Name         string    `gorm:"size:100" json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `gorm:"index" json:"end_date"`
	IsActive     bool      `gorm:"default:false;index" json:"is_active"`
	PremiumPrice int64     `gorm:"default:50" json:"premium_price"`
}

type BattlePassLevel struct {
	gorm.Model

	SeasonID   uint `gorm:"index;uniqueIndex:idx_season_level"`
	Level      int  `gorm:"uniqueIndex:idx_season_level" json:"level"`
	RequiredXP int  `json:"required_xp"`
}

type BattlePassReward struct {
	gorm.Model

	LevelID uint `gorm:"index"`
	Level   BattlePassLevel

	Description string `gorm:"size:255" json:"description"`
	IsPremium   bool   `gorm:"default:false" json:"is_premium"`

	ItemCode   int    `json:"item_code"`
	ItemName   string `gorm:"size:100" json:"item_name"`
	ItemEnchant int   `gorm:"default:0" json:"item_enchant"`
	ItemAmount int    `gorm:"default:1" json:"item_amount"`
}

type UserBattlePassProgress struct {
	gorm.Model

	UserID   uint `gorm:"index;uniqueIndex:idx_user_season"`
	SeasonID uint `gorm:"uniqueIndex:idx_user_season"`
	Season   BattlePassSeason

	XP                int  `gorm:"default:0" json:"xp"`
	HasPremium        bool `gorm:"default:false" json:"has_premium"`
	LastLevelNotified int  `gorm:"default:0" json:"last_level_notified"`
}

// BattlePassClaimedReward marks one reward as claimed for one progress row.
type BattlePassClaimedReward struct {
	gorm.Model

	ProgressID uint `gorm:"index;uniqueIndex:idx_progress_reward"`
	RewardID   uint `gorm:"uniqueIndex:idx_progress_reward"`
}

// BattlePassHistory is the append-only activity log quests aggregate over.
type BattlePassHistory struct {
	gorm.Model

	UserID   uint `gorm:"index"`
	SeasonID uint `gorm:"index"`

	ActionType   string         `gorm:"size:32;index" json:"action_type"` // xp_gained | level_up | milestone_reached | quest_completed
	Description  string         `gorm:"size:255" json:"description"`
	XPAmount     int            `gorm:"default:0" json:"xp_amount"`
	LevelReached int            `gorm:"default:0" json:"level_reached"`
	Metadata     datatypes.JSON `json:"metadata"`
}

type BattlePassMilestone struct {
	gorm.Model

	SeasonID uint   `gorm:"index;uniqueIndex:idx_season_milestone"`
	Level    int    `gorm:"uniqueIndex:idx_season_milestone" json:"level"`
	Title    string `gorm:"size:100" json:"title"`
	BonusXP  int    `gorm:"default:0" json:"bonus_xp"`
}

const (
	QuestResetNone   = "none"
	QuestResetDaily  = "daily"
	QuestResetWeekly = "weekly"
)

const (
	ObjectiveRouletteItems   = "roulette_items"
	ObjectiveBoxItems        = "box_items"
	ObjectiveSlotItems       = "slot_items"
	ObjectiveDiceNumber      = "dice_number"
	ObjectiveFishingRodLevel = "fishing_rod_level"
	ObjectiveGameItem        = "game_item"
	ObjectiveXP              = "xp"
)

type BattlePassQuest struct {
	gorm.Model

	SeasonID uint `gorm:"index"`
	Season   BattlePassSeason

	Title           string         `gorm:"size:100" json:"title"`
	ObjectiveType   string         `gorm:"size:32;index" json:"objective_type"`
	ObjectiveTarget int            `json:"objective_target"`
	ObjectiveMeta   datatypes.JSON `json:"objective_meta"`
	ResetCadence    string         `gorm:"size:10;default:none" json:"reset_cadence"`
	XPReward        int            `json:"xp_reward"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`

	// When set, completing the quest consumes this many of the item from the bag.
	RequiredItemCode   int `gorm:"default:0" json:"required_item_code"`
	RequiredItemAmount int `gorm:"default:0" json:"required_item_amount"`
}

type BattlePassQuestProgress struct {
	gorm.Model

	UserID  uint `gorm:"index;uniqueIndex:idx_user_quest"`
	QuestID uint `gorm:"uniqueIndex:idx_user_quest"`
	Quest   BattlePassQuest

	Progress    int        `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	LastResetAt time.Time  `json:"last_reset_at"`
}

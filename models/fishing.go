package models

import (
	"time"

	"gorm.io/gorm"
)

type FishingGameConfig struct {
	gorm.Model

	Name        string `gorm:"size:100" json:"name"`
	CostPerCast int64  `gorm:"default:1" json:"cost_per_cast"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`
}

type FishingRod struct {
	gorm.Model

	UserID     uint `gorm:"uniqueIndex"`
	Level      int  `gorm:"default:1" json:"level"`
	Experience int  `gorm:"default:0" json:"experience"`
}

// AddExperience applies XP and handles level-ups; each level needs level*100 XP.
func (r *FishingRod) AddExperience(amount int) {
	r.Experience += amount
	for r.Experience >= r.Level*100 {
		r.Experience -= r.Level * 100
		r.Level++
	}
}

type Fish struct {
	gorm.Model

	Name        string `gorm:"size:100" json:"name"`
	Rarity      string `gorm:"size:20;index" json:"rarity"`
	Icon        string `gorm:"size:10" json:"icon"`
	MinRodLevel int    `gorm:"default:1" json:"min_rod_level"`
	Weight      int64  `gorm:"default:10" json:"weight"`

	ExperienceReward int   `gorm:"default:10" json:"experience_reward"`
	ItemRewardID     *uint `json:"item_reward_id"`
	ItemReward       *Item
	FichasReward     int64 `gorm:"default:0" json:"fichas_reward"`
}

type FishingHistory struct {
	gorm.Model

	UserID   uint `gorm:"index"`
	FishID   uint `gorm:"index"`
	Fish     Fish
	RodLevel int  `json:"rod_level"`
	Success  bool `gorm:"default:true" json:"success"`
}

type FishingBait struct {
	gorm.Model

	Name            string  `gorm:"size:100" json:"name"`
	Description     string  `gorm:"size:255" json:"description"`
	Price           int64   `json:"price"` // fichas
	RarityBoost     string  `gorm:"size:20" json:"rarity_boost"`
	BoostPercentage float64 `gorm:"default:10" json:"boost_percentage"`
	DurationMinutes int     `gorm:"default:30" json:"duration_minutes"`
}

type UserFishingBait struct {
	gorm.Model

	UserID uint `gorm:"index"`
	BaitID uint `gorm:"index"`
	Bait   FishingBait

	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
}

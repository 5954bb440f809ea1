package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameConfig holds module-wide knobs shared by the chance games.
type GameConfig struct {
	gorm.Model

	FailChance int `gorm:"default:20" json:"fail_chance"` // percent, [0,100)
}

type Prize struct {
	gorm.Model

	ItemID uint `gorm:"index"`
	Item   Item

	Weight int64 `gorm:"default:1" json:"weight"`
}

// SpinHistory is the immutable audit record for one roulette draw. The weights
// snapshot is persisted as an opaque JSON blob and only deserialized for the
// audit export endpoint.
type SpinHistory struct {
	gorm.Model

	UserID   uint   `gorm:"index"`
	UserCode string `gorm:"size:32;index"`

	PrizeID *uint `gorm:"index"` // nil means the fail outcome
	Prize   *Prize

	Seed            int64          `json:"seed"`
	FailChance      int            `json:"fail_chance"`
	WeightsSnapshot datatypes.JSON `json:"weights_snapshot"`
}

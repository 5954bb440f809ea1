package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TierCapUnlimited is the sentinel for "no cap". A cap of 0 excludes the tier
// outright.
const TierCapUnlimited = -1

type BoxType struct {
	gorm.Model

	Name           string          `gorm:"size:100" json:"name"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	BoostersAmount int             `gorm:"default:5" json:"boosters_amount"`

	// Per-rarity draw chances in percent; must sum to 100.
	ChanceCommon    float64 `gorm:"default:60" json:"chance_common"`
	ChanceRare      float64 `gorm:"default:25" json:"chance_rare"`
	ChanceEpic      float64 `gorm:"default:10" json:"chance_epic"`
	ChanceLegendary float64 `gorm:"default:5" json:"chance_legendary"`

	MaxEpicItems      int `gorm:"default:-1" json:"max_epic_items"`
	MaxLegendaryItems int `gorm:"default:-1" json:"max_legendary_items"`
}

type Box struct {
	gorm.Model

	UserID    uint `gorm:"index"`
	BoxTypeID uint `gorm:"index"`
	BoxType   BoxType

	Items []BoxItem `gorm:"foreignKey:BoxID;constraint:OnDelete:CASCADE"`
}

// BoxItem is one pre-populated slot. Contents and probability are fixed at
// population time; only the opened flag ever changes.
type BoxItem struct {
	gorm.Model

	BoxID  uint `gorm:"index"`
	ItemID uint `gorm:"index"`
	Item   Item

	Probability float64 `gorm:"default:1" json:"probability"`
	Opened      bool    `gorm:"default:false;index" json:"opened"`
}

type BoxItemHistory struct {
	gorm.Model

	UserID   uint   `gorm:"index"`
	UserCode string `gorm:"size:32"`
	ItemID   uint   `gorm:"index"`
	Item     Item
	BoxID    uint
	Rarity   string `gorm:"size:20"`
	Enchant  int
}

package models

import (
	"gorm.io/gorm"
)

const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// RarityOrder lists tiers from highest to lowest, the fall-through order used
// when a tier cap is exhausted during box population.
var RarityOrder = []string{RarityLegendary, RarityEpic, RarityRare, RarityCommon}

type Item struct {
	gorm.Model

	Name           string `gorm:"size:100" json:"name"`
	ItemCode       int    `gorm:"index" json:"item_code"`
	Enchant        int    `gorm:"default:0" json:"enchant"`
	Description    string `gorm:"size:255" json:"description"`
	Rarity         string `gorm:"size:20;index" json:"rarity"`
	Stackable      bool   `gorm:"default:true" json:"stackable"`
	CanBePopulated bool   `gorm:"default:true" json:"can_be_populated"`
}

// Bag is the account-side holding area. Delivery to an in-game character is
// handled outside this service.
type Bag struct {
	gorm.Model

	UserID uint      `gorm:"uniqueIndex"`
	Items  []BagItem `gorm:"foreignKey:BagID"`
}

type BagItem struct {
	gorm.Model

	BagID    uint   `gorm:"index;uniqueIndex:idx_bag_item_enchant"`
	ItemCode int    `gorm:"uniqueIndex:idx_bag_item_enchant"`
	Enchant  int    `gorm:"uniqueIndex:idx_bag_item_enchant"`
	ItemName string `gorm:"size:100"`
	Quantity int    `gorm:"default:1"`
}

package models

import (
	"gorm.io/gorm"
)

type SlotMachineConfig struct {
	gorm.Model

	Name        string `gorm:"size:100" json:"name"`
	CostPerSpin int64  `gorm:"default:1" json:"cost_per_spin"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	JackpotAmount int64   `gorm:"default:100" json:"jackpot_amount"`
	JackpotFloor  int64   `gorm:"default:100" json:"jackpot_floor"`
	JackpotChance float64 `gorm:"default:0.1" json:"jackpot_chance"` // percent

	// Fraction of each non-jackpot spin's cost fed into the pot.
	JackpotContribution float64 `gorm:"default:0.1" json:"jackpot_contribution"`
}

type SlotMachineSymbol struct {
	gorm.Model

	Symbol string `gorm:"size:20;uniqueIndex" json:"symbol"`
	Weight int64  `gorm:"default:10" json:"weight"`
	Icon   string `gorm:"size:50" json:"icon"`
}

type SlotMachinePrize struct {
	gorm.Model

	ConfigID uint `gorm:"index;uniqueIndex:idx_slot_prize"`
	SymbolID uint `gorm:"uniqueIndex:idx_slot_prize"`
	Symbol   SlotMachineSymbol

	MatchesRequired int   `gorm:"default:3;uniqueIndex:idx_slot_prize" json:"matches_required"`
	ItemID          *uint `json:"item_id"`
	Item            *Item
	FichasPrize     int64 `gorm:"default:0" json:"fichas_prize"`
}

type SlotMachineHistory struct {
	gorm.Model

	UserID   uint `gorm:"index"`
	ConfigID uint `gorm:"index"`

	SymbolsResult string `gorm:"size:100" json:"symbols_result"`
	PrizeWonID    *uint
	PrizeWon      *SlotMachinePrize
	IsJackpot     bool  `gorm:"default:false" json:"is_jackpot"`
	FichasWon     int64 `gorm:"default:0" json:"fichas_won"`
}

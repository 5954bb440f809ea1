package models

import (
	"gorm.io/gorm"
)

const (
	DiceBetNumber = "number"
	DiceBetEven   = "even"
	DiceBetOdd    = "odd"
	DiceBetHigh   = "high"
	DiceBetLow    = "low"
)

type DiceGameConfig struct {
	gorm.Model

	MinBet   int64 `gorm:"default:1" json:"min_bet"`
	MaxBet   int64 `gorm:"default:100" json:"max_bet"`
	IsActive bool  `gorm:"default:true;index" json:"is_active"`

	// A "number" bet must wager at least this much.
	MinNumberBet int64 `gorm:"default:10" json:"min_number_bet"`

	SpecificNumberMultiplier float64 `gorm:"default:5" json:"specific_number_multiplier"`
	EvenOddMultiplier        float64 `gorm:"default:2" json:"even_odd_multiplier"`
	HighLowMultiplier        float64 `gorm:"default:2" json:"high_low_multiplier"`
}

type DiceGameHistory struct {
	gorm.Model

	UserID uint `gorm:"index"`

	BetType     string `gorm:"size:10" json:"bet_type"`
	BetValue    *int   `json:"bet_value"` // 1-6, number bets only
	BetAmount   int64  `json:"bet_amount"`
	DiceResult  int    `json:"dice_result"`
	Won         bool   `gorm:"default:false" json:"won"`
	PrizeAmount int64  `gorm:"default:0" json:"prize_amount"`
}

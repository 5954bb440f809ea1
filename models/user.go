package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	UserCode string `gorm:"uniqueIndex;size:32" json:"user_code"`
	Fichas   int64  `json:"fichas"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	TokenTransactions []TokenHistory `gorm:"foreignKey:UserID"`
}

// TokenHistory is the append-only ledger for fichas. The cached User.Fichas
// column must always equal the sum of deltas; rows are never updated or deleted.
type TokenHistory struct {
	gorm.Model

	UserID   uint   `gorm:"index"`
	UserCode string `gorm:"size:32;index"`

	TrxType  string `gorm:"size:16"` // earn | spend
	GameType string `gorm:"size:32;index"`
	Amount   int64  `json:"amount"`

	BalanceBefore int64 `json:"balance_before"`
	BalanceAfter  int64 `json:"balance_after"`

	Note  string `gorm:"size:255"`
	RefID string `gorm:"size:64;index"`
}

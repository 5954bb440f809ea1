package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds real-money balance. Fichas purchases and box purchases debit
// here; top-ups arrive from the payment gateway outside this service.
type Wallet struct {
	gorm.Model

	UserID uint            `gorm:"uniqueIndex"`
	Saldo  decimal.Decimal `gorm:"type:numeric(12,2)" json:"saldo"`
}

type WalletTransaction struct {
	gorm.Model

	WalletID uint   `gorm:"index"`
	UserID   uint   `gorm:"index"`
	TrxType  string `gorm:"size:16"` // deposit | withdraw

	Amount      decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	SaldoBefore decimal.Decimal `gorm:"type:numeric(12,2)" json:"saldo_before"`
	SaldoAfter  decimal.Decimal `gorm:"type:numeric(12,2)" json:"saldo_after"`

	Origem  string `gorm:"size:64"`
	Destino string `gorm:"size:64"`
	Note    string `gorm:"size:255"`
	RefID   string `gorm:"size:64"`
}

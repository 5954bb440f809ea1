package services

import (
	"arcade/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func lockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := lockForUpdate(tx).
		Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		wallet = models.Wallet{UserID: userID, Saldo: decimal.Zero}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// WalletDebit charges real-money balance, writing one transaction row.
func WalletDebit(tx *gorm.DB, userID uint, amount decimal.Decimal, origem, destino, note string) (*models.Wallet, error) {
	wallet, err := lockWallet(tx, userID)
	if err != nil {
		return nil, err
	}

	if wallet.Saldo.LessThan(amount) {
		return nil, ErrInsufficientSaldo
	}

	before := wallet.Saldo
	wallet.Saldo = wallet.Saldo.Sub(amount)
	if err := tx.Model(wallet).Update("saldo", wallet.Saldo).Error; err != nil {
		return nil, err
	}

	entry := models.WalletTransaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		TrxType:     "withdraw",
		Amount:      amount,
		SaldoBefore: before,
		SaldoAfter:  wallet.Saldo,
		Origem:      origem,
		Destino:     destino,
		Note:        note,
		RefID:       uuid.New().String(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return wallet, nil
}

// WalletCredit adds real-money balance (post-funding only; top-ups originate
// at the payment gateway outside this service).
func WalletCredit(tx *gorm.DB, userID uint, amount decimal.Decimal, origem, destino, note string) (*models.Wallet, error) {
	wallet, err := lockWallet(tx, userID)
	if err != nil {
		return nil, err
	}

	before := wallet.Saldo
	wallet.Saldo = wallet.Saldo.Add(amount)
	if err := tx.Model(wallet).Update("saldo", wallet.Saldo).Error; err != nil {
		return nil, err
	}

	entry := models.WalletTransaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		TrxType:     "deposit",
		Amount:      amount,
		SaldoBefore: before,
		SaldoAfter:  wallet.Saldo,
		Origem:      origem,
		Destino:     destino,
		Note:        note,
		RefID:       uuid.New().String(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return wallet, nil
}

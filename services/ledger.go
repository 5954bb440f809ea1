package services

import (
	"fmt"

	"arcade/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate applies SELECT ... FOR UPDATE where the engine supports it.
// SQLite rejects the clause and serializes on its single writer instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockUser loads the user row FOR UPDATE so concurrent mutations on the same
// account serialize. Must be called inside a transaction.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := lockForUpdate(tx).
		First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Debit removes fichas from the account, appending exactly one ledger row and
// updating the cached balance in the same transaction. Returns
// ErrInsufficientFunds without mutating anything when the balance is short.
func Debit(tx *gorm.DB, userID uint, amount int64, gameType, note string) (*models.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("debit amount must be >= 0, got %d", amount)
	}

	user, err := lockUser(tx, userID)
	if err != nil {
		return nil, err
	}

	if user.Fichas < amount {
		return nil, ErrInsufficientFunds
	}

	before := user.Fichas
	user.Fichas -= amount
	if err := tx.Model(user).Update("fichas", user.Fichas).Error; err != nil {
		return nil, err
	}

	entry := models.TokenHistory{
		UserID:        user.ID,
		UserCode:      user.UserCode,
		TrxType:       "spend",
		GameType:      gameType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  user.Fichas,
		Note:          note,
		RefID:         uuid.New().String(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Credit adds fichas to the account. Always succeeds for amount >= 0.
func Credit(tx *gorm.DB, userID uint, amount int64, gameType, note string) (*models.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("credit amount must be >= 0, got %d", amount)
	}

	user, err := lockUser(tx, userID)
	if err != nil {
		return nil, err
	}

	before := user.Fichas
	user.Fichas += amount
	if err := tx.Model(user).Update("fichas", user.Fichas).Error; err != nil {
		return nil, err
	}

	entry := models.TokenHistory{
		UserID:        user.ID,
		UserCode:      user.UserCode,
		TrxType:       "earn",
		GameType:      gameType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  user.Fichas,
		Note:          note,
		RefID:         uuid.New().String(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Balance is an O(1) read of the cached balance column.
func Balance(db *gorm.DB, userID uint) (int64, error) {
	var user models.User
	if err := db.Select("fichas").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Fichas, nil
}

// Reconcile re-derives the balance from the ledger under lock and repairs the
// cached column if it drifted. Returns the reconciled balance.
func Reconcile(db *gorm.DB, userID uint) (int64, error) {
	var balance int64
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		var earned, spent int64
		if err := tx.Model(&models.TokenHistory{}).
			Where("user_id = ? AND trx_type = ?", userID, "earn").
			Select("COALESCE(SUM(amount), 0)").Scan(&earned).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TokenHistory{}).
			Where("user_id = ? AND trx_type = ?", userID, "spend").
			Select("COALESCE(SUM(amount), 0)").Scan(&spent).Error; err != nil {
			return err
		}

		balance = earned - spent
		if user.Fichas != balance {
			if err := tx.Model(user).Update("fichas", balance).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return balance, err
}

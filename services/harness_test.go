package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"arcade/database"
	"arcade/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var userSeq atomic.Int64

// newTestDB opens a fresh in-memory database. The pool is pinned to one
// connection so the memory database survives and concurrent transactions
// serialize the way a row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// newTestUser creates an account funded through the ledger so the history
// stays consistent with the cached balance.
func newTestUser(t *testing.T, db *gorm.DB, fichas int64) *models.User {
	t.Helper()

	user := &models.User{
		UserCode: fmt.Sprintf("tester%d", userSeq.Add(1)),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	if fichas > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := Credit(tx, user.ID, fichas, "admin", "Test funding")
			return err
		})
		require.NoError(t, err)
		user.Fichas = fichas
	}
	return user
}

func fundWallet(t *testing.T, db *gorm.DB, userID uint, amount int64) {
	t.Helper()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := WalletCredit(tx, userID, decimal.NewFromInt(amount),
			"Gateway", "Wallet", "Test deposit")
		return err
	})
	require.NoError(t, err)
}

func walletBalance(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var wallet models.Wallet
	err := db.Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero
	}
	require.NoError(t, err)
	return wallet.Saldo
}

func fichasBalance(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	balance, err := Balance(db, userID)
	require.NoError(t, err)
	return balance
}

// stubSeeds makes the per-draw seeds deterministic for the test's lifetime,
// cycling through the given values.
func stubSeeds(t *testing.T, seeds ...int64) {
	t.Helper()
	old := seedSource
	var i int
	seedSource = func() int64 {
		s := seeds[i%len(seeds)]
		i++
		return s
	}
	t.Cleanup(func() { seedSource = old })
}

func seedItem(t *testing.T, db *gorm.DB, name, rarity string) *models.Item {
	t.Helper()
	item := &models.Item{
		Name:           name,
		ItemCode:       int(userSeq.Add(1)) + 1000,
		Rarity:         rarity,
		CanBePopulated: true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func bagQuantity(t *testing.T, db *gorm.DB, userID uint, itemCode int) int {
	t.Helper()
	var bag models.Bag
	err := db.Where("user_id = ?", userID).First(&bag).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)

	var item models.BagItem
	err = db.Where("bag_id = ? AND item_code = ?", bag.ID, itemCode).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return item.Quantity
}

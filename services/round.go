package services

import (
	"arcade/models"

	"gorm.io/gorm"
)

// RoundFunc runs the draw and settlement phases of one paid round. The user
// row is already locked and the cost already debited; any error rolls the
// whole round back, charge included.
type RoundFunc func(tx *gorm.DB, user *models.User) error

// PlayRound is the shared charge → draw → settle → record sequence. Every
// chance game (roulette, slots, dice, fishing, box opening) runs through it so
// a round is always all-or-nothing: a failed charge rejects with nothing
// written, and a failure after the charge restores the balance and writes no
// audit row. Rule checks that must reject before charging belong in the
// caller, before PlayRound.
func PlayRound(db *gorm.DB, userID uint, cost int64, gameType, note string, fn RoundFunc) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user, err := Debit(tx, userID, cost, gameType, note)
		if err != nil {
			return err
		}
		return fn(tx, user)
	})
}

// grantBagItem stacks one item into the user's bag, creating the bag lazily.
func grantBagItem(tx *gorm.DB, userID uint, item *models.Item, quantity int) error {
	var bag models.Bag
	if err := tx.Where(models.Bag{UserID: userID}).FirstOrCreate(&bag).Error; err != nil {
		return err
	}

	var bagItem models.BagItem
	err := tx.Where("bag_id = ? AND item_code = ? AND enchant = ?",
		bag.ID, item.ItemCode, item.Enchant).First(&bagItem).Error
	if err == gorm.ErrRecordNotFound {
		bagItem = models.BagItem{
			BagID:    bag.ID,
			ItemCode: item.ItemCode,
			Enchant:  item.Enchant,
			ItemName: item.Name,
			Quantity: quantity,
		}
		return tx.Create(&bagItem).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&bagItem).Update("quantity", bagItem.Quantity+quantity).Error
}

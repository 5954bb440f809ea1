package services

import (
	"math/rand"

	"arcade/models"

	"gorm.io/gorm"
)

const boxOpenCost = 1

// BoxOpenResult is the settled outcome of opening one slot.
type BoxOpenResult struct {
	Item              *models.Item `json:"item"`
	RemainingBoosters int          `json:"remaining_boosters"`
	BoxDeleted        bool         `json:"box_deleted"`
	Fichas            int64        `json:"fichas"`
}

// OpenBox charges one ficha and consumes one unopened slot, drawn over the
// probabilities fixed at population time. The opened flag flips through a
// conditional update so two concurrent opens can never consume the same slot;
// the loser gets ErrConcurrencyConflict and retries the whole call. Opening
// the last slot deletes the box. A box with no unopened slots fails with
// ErrEmptyContainer, rolling the charge back.
func OpenBox(db *gorm.DB, userID uint, boxID uint) (*BoxOpenResult, error) {
	var result BoxOpenResult

	err := PlayRound(db, userID, boxOpenCost, "box", "Box opening", func(tx *gorm.DB, user *models.User) error {
		var box models.Box
		if err := tx.Where("id = ? AND user_id = ?", boxID, userID).First(&box).Error; err != nil {
			return err
		}

		var slots []models.BoxItem
		if err := tx.Preload("Item").
			Where("box_id = ? AND opened = ?", box.ID, false).
			Find(&slots).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return ErrEmptyContainer
		}

		weights := make([]float64, len(slots))
		for i := range slots {
			weights[i] = slots[i].Probability
		}

		rng := rand.New(rand.NewSource(NewSeed()))
		idx, err := PickIndex(rng, weights)
		if err != nil {
			return err
		}
		selected := &slots[idx]

		// Guard against a concurrent open of the same slot.
		res := tx.Model(&models.BoxItem{}).
			Where("id = ? AND opened = ?", selected.ID, false).
			Update("opened", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		if err := grantBagItem(tx, user.ID, &selected.Item, 1); err != nil {
			return err
		}

		history := models.BoxItemHistory{
			UserID:   user.ID,
			UserCode: user.UserCode,
			ItemID:   selected.Item.ID,
			BoxID:    box.ID,
			Rarity:   selected.Item.Rarity,
			Enchant:  selected.Item.Enchant,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.BoxItem{}).
			Where("box_id = ? AND opened = ?", box.ID, false).
			Count(&remaining).Error; err != nil {
			return err
		}

		if remaining == 0 {
			if err := tx.Where("box_id = ?", box.ID).Delete(&models.BoxItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&box).Error; err != nil {
				return err
			}
			result.BoxDeleted = true
		}

		item := selected.Item
		result.Item = &item
		result.RemainingBoosters = int(remaining)
		result.Fichas = user.Fichas
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

package services

import (
	"fmt"
	"math"
	"math/rand"

	"arcade/models"

	"gorm.io/gorm"
)

const tierChanceEpsilon = 0.01

// ValidateBoxType checks the tier-chance table at definition time. Chances
// must sum to 100 within epsilon; caps use 0 = tier excluded, -1 = unlimited.
func ValidateBoxType(bt *models.BoxType) error {
	sum := bt.ChanceCommon + bt.ChanceRare + bt.ChanceEpic + bt.ChanceLegendary
	if math.Abs(sum-100) > tierChanceEpsilon {
		return fmt.Errorf("%w: tier chances sum to %.2f, want 100", ErrInvalidWeights, sum)
	}
	for _, chance := range []float64{bt.ChanceCommon, bt.ChanceRare, bt.ChanceEpic, bt.ChanceLegendary} {
		if chance < 0 {
			return fmt.Errorf("%w: negative tier chance", ErrInvalidWeights)
		}
	}
	if bt.MaxEpicItems < models.TierCapUnlimited || bt.MaxLegendaryItems < models.TierCapUnlimited {
		return fmt.Errorf("%w: tier cap below -1", ErrInvalidWeights)
	}
	if bt.BoostersAmount <= 0 {
		return fmt.Errorf("%w: box needs at least one slot", ErrInvalidWeights)
	}
	return nil
}

func tierChance(bt *models.BoxType, rarity string) float64 {
	switch rarity {
	case models.RarityLegendary:
		return bt.ChanceLegendary
	case models.RarityEpic:
		return bt.ChanceEpic
	case models.RarityRare:
		return bt.ChanceRare
	default:
		return bt.ChanceCommon
	}
}

func tierCap(bt *models.BoxType, rarity string) int {
	switch rarity {
	case models.RarityLegendary:
		return bt.MaxLegendaryItems
	case models.RarityEpic:
		return bt.MaxEpicItems
	default:
		return models.TierCapUnlimited
	}
}

// tierOpen reports whether the tier can still take a slot given its cap and
// how many slots of that tier were already drawn. Cap 0 excludes the tier,
// -1 never closes it.
func tierOpen(bt *models.BoxType, rarity string, drawn int) bool {
	cap := tierCap(bt, rarity)
	if cap == models.TierCapUnlimited {
		return true
	}
	return drawn < cap
}

// PopulateBox fills every slot of the box. Per slot: a weighted tier draw over
// the chance table, then a uniform pick among the tier's populatable items.
// A tier that is capped out or has no items falls through to the next lower
// tier; its probability mass is not redistributed. When no tier can take the
// slot the whole population fails with ErrPopulationExhausted so the caller's
// transaction (and the purchase charge inside it) rolls back. Populated slots
// are immutable; a re-roll recreates the box at full price.
func PopulateBox(tx *gorm.DB, box *models.Box, boxType *models.BoxType, seed int64) error {
	if err := ValidateBoxType(boxType); err != nil {
		return err
	}

	itemsByTier := make(map[string][]models.Item, len(models.RarityOrder))
	for _, rarity := range models.RarityOrder {
		var items []models.Item
		if err := tx.Where("rarity = ? AND can_be_populated = ?", rarity, true).
			Find(&items).Error; err != nil {
			return err
		}
		itemsByTier[rarity] = items
	}

	rng := rand.New(rand.NewSource(seed))
	drawnPerTier := make(map[string]int, len(models.RarityOrder))

	for slot := 0; slot < boxType.BoostersAmount; slot++ {
		rarity, err := drawTier(rng, boxType, itemsByTier, drawnPerTier)
		if err != nil {
			return err
		}

		tierItems := itemsByTier[rarity]
		item := tierItems[rng.Intn(len(tierItems))]
		drawnPerTier[rarity]++

		boxItem := models.BoxItem{
			BoxID:       box.ID,
			ItemID:      item.ID,
			Probability: tierChance(boxType, rarity),
		}
		if err := tx.Create(&boxItem).Error; err != nil {
			return err
		}
	}

	return nil
}

// drawTier picks a rarity tier by chance, walking down RarityOrder from the
// drawn tier until one with capacity and items is found.
func drawTier(rng *rand.Rand, bt *models.BoxType, itemsByTier map[string][]models.Item, drawn map[string]int) (string, error) {
	weights := make([]float64, len(models.RarityOrder))
	for i, rarity := range models.RarityOrder {
		weights[i] = tierChance(bt, rarity)
	}

	idx, err := PickIndex(rng, weights)
	if err != nil {
		return "", err
	}

	for i := idx; i < len(models.RarityOrder); i++ {
		rarity := models.RarityOrder[i]
		if len(itemsByTier[rarity]) == 0 {
			continue
		}
		if !tierOpen(bt, rarity, drawn[rarity]) {
			continue
		}
		return rarity, nil
	}

	return "", ErrPopulationExhausted
}

// BuyBox charges the wallet, replaces any existing box of the same type and
// populates a fresh one. A population failure aborts the transaction, rolling
// the wallet charge back.
func BuyBox(db *gorm.DB, userID uint, boxTypeID uint) (*models.Box, error) {
	var box *models.Box
	err := db.Transaction(func(tx *gorm.DB) error {
		var boxType models.BoxType
		if err := tx.First(&boxType, boxTypeID).Error; err != nil {
			return err
		}
		if err := ValidateBoxType(&boxType); err != nil {
			return err
		}

		if _, err := WalletDebit(tx, userID, boxType.Price,
			"Wallet", "Box shop", fmt.Sprintf("Box purchase: %s", boxType.Name)); err != nil {
			return err
		}

		// Only one active box per type; a new purchase replaces the old one.
		var stale []models.Box
		if err := tx.Where("user_id = ? AND box_type_id = ?", userID, boxTypeID).
			Find(&stale).Error; err != nil {
			return err
		}
		for i := range stale {
			if err := tx.Where("box_id = ?", stale[i].ID).Delete(&models.BoxItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&stale[i]).Error; err != nil {
				return err
			}
		}

		created := models.Box{UserID: userID, BoxTypeID: boxTypeID}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if err := PopulateBox(tx, &created, &boxType, NewSeed()); err != nil {
			return err
		}

		box = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return box, nil
}

// ResetBox recreates the slots of an existing box at full price.
func ResetBox(db *gorm.DB, userID uint, boxID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var box models.Box
		if err := tx.Preload("BoxType").
			Where("id = ? AND user_id = ?", boxID, userID).First(&box).Error; err != nil {
			return err
		}

		if _, err := WalletDebit(tx, userID, box.BoxType.Price,
			"Wallet", "Box shop", fmt.Sprintf("Box reset: %s", box.BoxType.Name)); err != nil {
			return err
		}

		if err := tx.Where("box_id = ?", box.ID).Delete(&models.BoxItem{}).Error; err != nil {
			return err
		}
		return PopulateBox(tx, &box, &box.BoxType, NewSeed())
	})
}

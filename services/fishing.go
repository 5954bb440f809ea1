package services

import (
	"fmt"
	"math/rand"
	"time"

	"arcade/models"

	"gorm.io/gorm"
)

// failedCastXPFraction of the fish's XP is still granted on a failed catch.
const failedCastXPFraction = 0.3

var baseCatchChance = map[string]int{
	models.RarityCommon:    90,
	models.RarityRare:      70,
	models.RarityEpic:      50,
	models.RarityLegendary: 30,
}

// FishingCastResult is the settled outcome of one cast.
type FishingCastResult struct {
	Fish      *models.Fish `json:"fish"`
	Success   bool         `json:"success"`
	XPGained  int          `json:"xp_gained"`
	FichasWon int64        `json:"fichas_won"`
	ItemWon   *models.Item `json:"item_won,omitempty"`
	RodLevel  int          `json:"rod_level"`
	Fichas    int64        `json:"fichas"`
}

// boostedWeights multiplies each fish's weight by every active bait matching
// its rarity.
func boostedWeights(fishes []models.Fish, baits []models.UserFishingBait) []float64 {
	weights := make([]float64, len(fishes))
	for i := range fishes {
		w := float64(fishes[i].Weight)
		for _, userBait := range baits {
			if fishes[i].Rarity == userBait.Bait.RarityBoost {
				w *= 1 + userBait.Bait.BoostPercentage/100
			}
		}
		weights[i] = w
	}
	return weights
}

// CastLine charges the cast cost, draws a fish from the pool the rod level
// unlocks and runs the catch trial. The hooked fish is decided by a weighted
// draw (bait-boosted); landing it is a second Bernoulli trial at
// min(95, base_by_rarity + rod_level)%. A failed catch still grants a
// fraction of the fish's XP.
func CastLine(db *gorm.DB, userID uint) (*FishingCastResult, error) {
	var cfg models.FishingGameConfig
	if err := db.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		return nil, err
	}

	var result FishingCastResult

	err := PlayRound(db, userID, cfg.CostPerCast, "fishing", "Fishing cast", func(tx *gorm.DB, user *models.User) error {
		var rod models.FishingRod
		if err := lockForUpdate(tx).
			Where(models.FishingRod{UserID: user.ID}).
			FirstOrCreate(&rod).Error; err != nil {
			return err
		}
		if rod.Level == 0 {
			rod.Level = 1
		}

		var fishes []models.Fish
		if err := tx.Preload("ItemReward").
			Where("min_rod_level <= ?", rod.Level).Find(&fishes).Error; err != nil {
			return err
		}
		if len(fishes) == 0 {
			return fmt.Errorf("%w: no fish available for rod level %d", ErrInvalidWeights, rod.Level)
		}

		var baits []models.UserFishingBait
		if err := tx.Preload("Bait").
			Where("user_id = ? AND is_active = ? AND expires_at > ?", user.ID, true, time.Now()).
			Find(&baits).Error; err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(NewSeed()))
		idx, err := PickIndex(rng, boostedWeights(fishes, baits))
		if err != nil {
			return err
		}
		caught := fishes[idx]

		base, ok := baseCatchChance[caught.Rarity]
		if !ok {
			base = 70
		}
		successRate := base + rod.Level
		if successRate > 95 {
			successRate = 95
		}
		success := rng.Float64() < float64(successRate)/100

		xpGained := caught.ExperienceReward
		if !success {
			xpGained = int(float64(caught.ExperienceReward) * failedCastXPFraction)
		}
		rod.AddExperience(xpGained)
		if err := tx.Model(&rod).
			Updates(map[string]any{"level": rod.Level, "experience": rod.Experience}).Error; err != nil {
			return err
		}

		var fichasWon int64
		var itemWon *models.Item
		if success {
			fichasWon = caught.FichasReward
			if fichasWon > 0 {
				updated, err := Credit(tx, user.ID, fichasWon, "fishing", "Fishing reward")
				if err != nil {
					return err
				}
				user.Fichas = updated.Fichas
			}
			if caught.ItemReward != nil {
				itemWon = caught.ItemReward
				if err := grantBagItem(tx, user.ID, caught.ItemReward, 1); err != nil {
					return err
				}
			}
		}

		history := models.FishingHistory{
			UserID:   user.ID,
			FishID:   caught.ID,
			RodLevel: rod.Level,
			Success:  success,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		fish := caught
		result = FishingCastResult{
			Fish:      &fish,
			Success:   success,
			XPGained:  xpGained,
			FichasWon: fichasWon,
			ItemWon:   itemWon,
			RodLevel:  rod.Level,
			Fichas:    user.Fichas,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BuyBait charges fichas for a bait and activates it for its duration.
func BuyBait(db *gorm.DB, userID uint, baitID uint) (*models.UserFishingBait, error) {
	var bait models.FishingBait
	if err := db.First(&bait, baitID).Error; err != nil {
		return nil, err
	}

	var activated *models.UserFishingBait
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Debit(tx, userID, bait.Price, "fishing", fmt.Sprintf("Bait purchase: %s", bait.Name)); err != nil {
			return err
		}

		now := time.Now()
		userBait := models.UserFishingBait{
			UserID:      userID,
			BaitID:      bait.ID,
			ActivatedAt: now,
			ExpiresAt:   now.Add(time.Duration(bait.DurationMinutes) * time.Minute),
			IsActive:    true,
		}
		if err := tx.Create(&userBait).Error; err != nil {
			return err
		}
		activated = &userBait
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

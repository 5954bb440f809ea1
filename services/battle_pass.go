package services

import (
	"fmt"
	"time"

	"arcade/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	activeSeasonCacheKey = "battle_pass_active_season"
	activeSeasonCacheTTL = 5 * time.Minute
)

// BattlePass bundles the progression operations with their injected season
// cache and notification sink.
type BattlePass struct {
	cache    *ExpiringCache
	notifier Notifier
}

func NewBattlePass(cache *ExpiringCache, notifier Notifier) *BattlePass {
	if cache == nil {
		cache = NewExpiringCache()
	}
	return &BattlePass{cache: cache, notifier: notifier}
}

// ActiveSeason returns the active season through the cache.
func (s *BattlePass) ActiveSeason(db *gorm.DB) (*models.BattlePassSeason, error) {
	if cached, ok := s.cache.Get(activeSeasonCacheKey); ok {
		season := cached.(models.BattlePassSeason)
		return &season, nil
	}

	var season models.BattlePassSeason
	if err := db.Where("is_active = ?", true).First(&season).Error; err != nil {
		return nil, err
	}

	s.cache.Set(activeSeasonCacheKey, season, activeSeasonCacheTTL)
	return &season, nil
}

// InvalidateSeasonCache drops the cached season. Called synchronously by the
// sweep and by any season mutation.
func (s *BattlePass) InvalidateSeasonCache() {
	s.cache.Delete(activeSeasonCacheKey)
}

// CurrentLevel returns the greatest level whose required XP is within reach;
// level 0 is the baseline below the first threshold.
func CurrentLevel(db *gorm.DB, seasonID uint, xp int) (int, error) {
	var level models.BattlePassLevel
	err := db.Where("season_id = ? AND required_xp <= ?", seasonID, xp).
		Order("level DESC").First(&level).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return level.Level, nil
}

// AddXPResult reports what one XP grant changed.
type AddXPResult struct {
	XP          int  `json:"xp"`
	OldLevel    int  `json:"old_level"`
	NewLevel    int  `json:"new_level"`
	LeveledUp   bool `json:"leveled_up"`
	BonusXP     int  `json:"bonus_xp"`
	AutoClaimed int  `json:"auto_claimed"`
}

// AddXP grants XP to the user's seasonal progress and recomputes the level.
// A level increase fires a notification, a history entry, the milestone
// bonus-XP lookup and auto-claim of unlocked free rewards. The progress row
// is locked so concurrent grants serialize.
func (s *BattlePass) AddXP(db *gorm.DB, userID uint, amount int, source string) (*AddXPResult, error) {
	season, err := s.ActiveSeason(db)
	if err != nil {
		return nil, err
	}

	var result AddXPResult
	var notifyLevel int

	err = db.Transaction(func(tx *gorm.DB) error {
		var progress models.UserBattlePassProgress
		if err := lockForUpdate(tx).
			Where(models.UserBattlePassProgress{UserID: userID, SeasonID: season.ID}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}

		oldLevel, err := CurrentLevel(tx, season.ID, progress.XP)
		if err != nil {
			return err
		}

		progress.XP += amount
		if err := tx.Model(&progress).Update("xp", progress.XP).Error; err != nil {
			return err
		}

		meta := datatypes.JSON(fmt.Sprintf(`{"source":%q}`, source))
		if err := tx.Create(&models.BattlePassHistory{
			UserID:      userID,
			SeasonID:    season.ID,
			ActionType:  "xp_gained",
			Description: fmt.Sprintf("Gained %d XP (%s)", amount, source),
			XPAmount:    amount,
			Metadata:    meta,
		}).Error; err != nil {
			return err
		}

		newLevel, err := CurrentLevel(tx, season.ID, progress.XP)
		if err != nil {
			return err
		}

		result = AddXPResult{XP: progress.XP, OldLevel: oldLevel, NewLevel: newLevel}

		if newLevel <= oldLevel {
			return nil
		}
		result.LeveledUp = true

		if err := tx.Create(&models.BattlePassHistory{
			UserID:       userID,
			SeasonID:     season.ID,
			ActionType:   "level_up",
			Description:  fmt.Sprintf("Reached level %d", newLevel),
			LevelReached: newLevel,
		}).Error; err != nil {
			return err
		}

		if newLevel > progress.LastLevelNotified {
			notifyLevel = newLevel
			if err := tx.Model(&progress).Update("last_level_notified", newLevel).Error; err != nil {
				return err
			}
		}

		// Milestone bonus XP, applied without re-triggering auto-claim cascades.
		var milestone models.BattlePassMilestone
		err = tx.Where("season_id = ? AND level = ?", season.ID, newLevel).First(&milestone).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == nil && milestone.BonusXP > 0 {
			progress.XP += milestone.BonusXP
			if err := tx.Model(&progress).Update("xp", progress.XP).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.BattlePassHistory{
				UserID:       userID,
				SeasonID:     season.ID,
				ActionType:   "milestone_reached",
				Description:  fmt.Sprintf("Milestone reached: %s", milestone.Title),
				XPAmount:     milestone.BonusXP,
				LevelReached: newLevel,
			}).Error; err != nil {
				return err
			}
			result.BonusXP = milestone.BonusXP
			result.XP = progress.XP
			if result.NewLevel, err = CurrentLevel(tx, season.ID, progress.XP); err != nil {
				return err
			}
		}

		claimed, err := s.autoClaimFree(tx, &progress, result.NewLevel)
		if err != nil {
			return err
		}
		result.AutoClaimed = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notifyLevel > 0 {
		dispatchNotification(s.notifier, userID,
			fmt.Sprintf("🎉 You reached level %d in the Battle Pass!", notifyLevel))
	}
	return &result, nil
}

// autoClaimFree claims every unlocked, unclaimed non-premium reward. Premium
// rewards are never auto-claimed, premium pass or not.
func (s *BattlePass) autoClaimFree(tx *gorm.DB, progress *models.UserBattlePassProgress, levelNum int) (int, error) {
	var rewards []models.BattlePassReward
	err := tx.Joins("Level").
		Where("\"Level\".season_id = ? AND \"Level\".level <= ? AND battle_pass_rewards.is_premium = ?",
			progress.SeasonID, levelNum, false).
		Find(&rewards).Error
	if err != nil {
		return 0, err
	}

	claimed := 0
	for i := range rewards {
		done, err := s.claimLocked(tx, progress, &rewards[i])
		if err != nil {
			return claimed, err
		}
		if done {
			claimed++
		}
	}
	return claimed, nil
}

// claimLocked records the claim and grants the reward item; returns false if
// already claimed.
func (s *BattlePass) claimLocked(tx *gorm.DB, progress *models.UserBattlePassProgress, reward *models.BattlePassReward) (bool, error) {
	var existing models.BattlePassClaimedReward
	err := tx.Where("progress_id = ? AND reward_id = ?", progress.ID, reward.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	if err := tx.Create(&models.BattlePassClaimedReward{
		ProgressID: progress.ID,
		RewardID:   reward.ID,
	}).Error; err != nil {
		return false, err
	}

	if reward.ItemCode != 0 {
		item := models.Item{
			Name:     reward.ItemName,
			ItemCode: reward.ItemCode,
			Enchant:  reward.ItemEnchant,
		}
		if err := grantBagItem(tx, progress.UserID, &item, reward.ItemAmount); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ClaimReward claims one reward by hand. Eligibility: level reached, not yet
// claimed, and premium rewards need the premium pass.
func (s *BattlePass) ClaimReward(db *gorm.DB, userID uint, rewardID uint) error {
	season, err := s.ActiveSeason(db)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var progress models.UserBattlePassProgress
		if err := lockForUpdate(tx).
			Where(models.UserBattlePassProgress{UserID: userID, SeasonID: season.ID}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}

		var reward models.BattlePassReward
		if err := tx.Preload("Level").First(&reward, rewardID).Error; err != nil {
			return err
		}
		if reward.Level.SeasonID != season.ID {
			return gorm.ErrRecordNotFound
		}

		levelNum, err := CurrentLevel(tx, season.ID, progress.XP)
		if err != nil {
			return err
		}
		if reward.Level.Level > levelNum {
			return fmt.Errorf("%w: reward requires level %d", ErrRuleViolation, reward.Level.Level)
		}
		if reward.IsPremium && !progress.HasPremium {
			return fmt.Errorf("%w: reward requires the premium pass", ErrRuleViolation)
		}

		done, err := s.claimLocked(tx, &progress, &reward)
		if err != nil {
			return err
		}
		if !done {
			return fmt.Errorf("%w: reward already claimed", ErrRuleViolation)
		}
		return nil
	})
}

// BuyPremium charges the wallet and unlocks premium claims for the season.
func (s *BattlePass) BuyPremium(db *gorm.DB, userID uint) error {
	season, err := s.ActiveSeason(db)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var progress models.UserBattlePassProgress
		if err := lockForUpdate(tx).
			Where(models.UserBattlePassProgress{UserID: userID, SeasonID: season.ID}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}
		if progress.HasPremium {
			return fmt.Errorf("%w: premium pass already owned", ErrRuleViolation)
		}

		price := decimal.NewFromInt(season.PremiumPrice)
		if _, err := WalletDebit(tx, userID, price,
			"Wallet", "Battle Pass", fmt.Sprintf("Premium pass: %s", season.Name)); err != nil {
			return err
		}

		return tx.Model(&progress).Update("has_premium", true).Error
	})
}

// ProgressSummary is the status view for one user.
type ProgressSummary struct {
	Season       *models.BattlePassSeason `json:"season"`
	XP           int                      `json:"xp"`
	CurrentLevel int                      `json:"current_level"`
	NextLevelXP  int                      `json:"next_level_xp"`
	IsMaxLevel   bool                     `json:"is_max_level"`
	HasPremium   bool                     `json:"has_premium"`
}

// Summary derives the user's seasonal standing.
func (s *BattlePass) Summary(db *gorm.DB, userID uint) (*ProgressSummary, error) {
	season, err := s.ActiveSeason(db)
	if err != nil {
		return nil, err
	}

	var progress models.UserBattlePassProgress
	if err := db.Where(models.UserBattlePassProgress{UserID: userID, SeasonID: season.ID}).
		FirstOrCreate(&progress).Error; err != nil {
		return nil, err
	}

	levelNum, err := CurrentLevel(db, season.ID, progress.XP)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{
		Season:       season,
		XP:           progress.XP,
		CurrentLevel: levelNum,
		HasPremium:   progress.HasPremium,
	}

	var next models.BattlePassLevel
	err = db.Where("season_id = ? AND level > ?", season.ID, levelNum).
		Order("level").First(&next).Error
	if err == gorm.ErrRecordNotFound {
		summary.IsMaxLevel = true
		return summary, nil
	}
	if err != nil {
		return nil, err
	}
	summary.NextLevelXP = next.RequiredXP
	return summary, nil
}

package services

import (
	"encoding/json"
	"fmt"
	"time"

	"arcade/models"

	"gorm.io/gorm"
)

// QuestTracker recomputes quest progress from the game logs instead of
// keeping incremental counters, so a missed hook can never leave progress
// permanently behind.
type QuestTracker struct {
	bp *BattlePass
}

func NewQuestTracker(bp *BattlePass) *QuestTracker {
	return &QuestTracker{bp: bp}
}

// questWindowStart is the lower bound of the log window a quest counts over.
// Daily quests count from local midnight, weekly quests from Monday 00:00,
// non-resetting quests from the season start.
func questWindowStart(cadence string, season *models.BattlePassSeason, now time.Time) time.Time {
	switch cadence {
	case models.QuestResetDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case models.QuestResetWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	default:
		return season.StartDate
	}
}

type objectiveMeta struct {
	ItemCode int `json:"item_code"`
	Value    int `json:"value"`
}

func parseObjectiveMeta(quest *models.BattlePassQuest) objectiveMeta {
	var meta objectiveMeta
	if len(quest.ObjectiveMeta) > 0 {
		_ = json.Unmarshal(quest.ObjectiveMeta, &meta)
	}
	return meta
}

// computeProgress derives the current progress value for one quest from the
// persistent logs, scoped to the quest's window.
func computeProgress(tx *gorm.DB, userID uint, quest *models.BattlePassQuest, since time.Time) (int, error) {
	var count int64
	meta := parseObjectiveMeta(quest)

	switch quest.ObjectiveType {
	case models.ObjectiveRouletteItems:
		err := tx.Model(&models.SpinHistory{}).
			Where("user_id = ? AND prize_id IS NOT NULL AND created_at >= ?", userID, since).
			Count(&count).Error
		return int(count), err

	case models.ObjectiveBoxItems:
		err := tx.Model(&models.BoxItemHistory{}).
			Where("user_id = ? AND created_at >= ?", userID, since).
			Count(&count).Error
		return int(count), err

	case models.ObjectiveSlotItems:
		err := tx.Model(&models.SlotMachineHistory{}).
			Where("user_id = ? AND (fichas_won > 0 OR prize_won_id IS NOT NULL) AND created_at >= ?", userID, since).
			Count(&count).Error
		return int(count), err

	case models.ObjectiveDiceNumber:
		q := tx.Model(&models.DiceGameHistory{}).
			Where("user_id = ? AND bet_type = ? AND won = ? AND created_at >= ?",
				userID, models.DiceBetNumber, true, since)
		if meta.Value > 0 {
			q = q.Where("bet_value = ?", meta.Value)
		}
		err := q.Count(&count).Error
		return int(count), err

	case models.ObjectiveFishingRodLevel:
		var rod models.FishingRod
		err := tx.Where("user_id = ?", userID).First(&rod).Error
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return rod.Level, err

	case models.ObjectiveGameItem:
		var bag models.Bag
		err := tx.Where("user_id = ?", userID).First(&bag).Error
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		var quantity int64
		err = tx.Model(&models.BagItem{}).
			Where("bag_id = ? AND item_code = ?", bag.ID, meta.ItemCode).
			Select("COALESCE(SUM(quantity), 0)").Scan(&quantity).Error
		return int(quantity), err

	case models.ObjectiveXP:
		var xp int64
		err := tx.Model(&models.BattlePassHistory{}).
			Where("user_id = ? AND action_type = ? AND created_at >= ?", userID, "xp_gained", since).
			Select("COALESCE(SUM(xp_amount), 0)").Scan(&xp).Error
		return int(xp), err
	}

	return 0, fmt.Errorf("unknown objective type %q", quest.ObjectiveType)
}

// maybeReset clears a resettable quest's progress when its window rolled over
// since the last reset.
func maybeReset(tx *gorm.DB, progress *models.BattlePassQuestProgress, quest *models.BattlePassQuest, season *models.BattlePassSeason, now time.Time) error {
	if quest.ResetCadence == models.QuestResetNone {
		return nil
	}
	start := questWindowStart(quest.ResetCadence, season, now)
	if !progress.LastResetAt.Before(start) {
		return nil
	}

	progress.Progress = 0
	progress.Completed = false
	progress.CompletedAt = nil
	progress.LastResetAt = now
	return tx.Model(progress).Updates(map[string]any{
		"progress":      0,
		"completed":     false,
		"completed_at":  nil,
		"last_reset_at": now,
	}).Error
}

// UpdateProgress refreshes one quest's progress row from the logs.
func (t *QuestTracker) UpdateProgress(db *gorm.DB, userID uint, questID uint) (*models.BattlePassQuestProgress, error) {
	season, err := t.bp.ActiveSeason(db)
	if err != nil {
		return nil, err
	}

	var progress models.BattlePassQuestProgress
	err = db.Transaction(func(tx *gorm.DB) error {
		var quest models.BattlePassQuest
		if err := tx.First(&quest, questID).Error; err != nil {
			return err
		}
		if quest.SeasonID != season.ID || !quest.IsActive {
			return gorm.ErrRecordNotFound
		}

		now := time.Now()
		if err := lockForUpdate(tx).
			Where(models.BattlePassQuestProgress{UserID: userID, QuestID: quest.ID}).
			Attrs(models.BattlePassQuestProgress{LastResetAt: now}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}
		if err := maybeReset(tx, &progress, &quest, season, now); err != nil {
			return err
		}

		value, err := computeProgress(tx, userID, &quest, questWindowStart(quest.ResetCadence, season, now))
		if err != nil {
			return err
		}
		if value > quest.ObjectiveTarget {
			value = quest.ObjectiveTarget
		}
		if value == progress.Progress {
			return nil
		}
		progress.Progress = value
		return tx.Model(&progress).Update("progress", value).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// QuestStatus pairs a quest with the user's refreshed progress.
type QuestStatus struct {
	Quest     models.BattlePassQuest `json:"quest"`
	Progress  int                    `json:"progress"`
	Completed bool                   `json:"completed"`
	Claimable bool                   `json:"claimable"`
}

// ListQuests refreshes and returns every active quest of the current season.
func (t *QuestTracker) ListQuests(db *gorm.DB, userID uint) ([]QuestStatus, error) {
	season, err := t.bp.ActiveSeason(db)
	if err != nil {
		return nil, err
	}

	var quests []models.BattlePassQuest
	if err := db.Where("season_id = ? AND is_active = ?", season.ID, true).
		Order("id").Find(&quests).Error; err != nil {
		return nil, err
	}

	statuses := make([]QuestStatus, 0, len(quests))
	for i := range quests {
		progress, err := t.UpdateProgress(db, userID, quests[i].ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, QuestStatus{
			Quest:     quests[i],
			Progress:  progress.Progress,
			Completed: progress.Completed,
			Claimable: !progress.Completed && progress.Progress >= quests[i].ObjectiveTarget,
		})
	}
	return statuses, nil
}

// CompleteQuest claims a finished quest: verifies the recomputed progress,
// consumes the required item when the quest demands one, marks completion and
// grants the XP reward through the battle pass.
func (t *QuestTracker) CompleteQuest(db *gorm.DB, userID uint, questID uint) (*AddXPResult, error) {
	season, err := t.bp.ActiveSeason(db)
	if err != nil {
		return nil, err
	}

	var xpResult *AddXPResult
	err = db.Transaction(func(tx *gorm.DB) error {
		var quest models.BattlePassQuest
		if err := tx.First(&quest, questID).Error; err != nil {
			return err
		}
		if quest.SeasonID != season.ID || !quest.IsActive {
			return gorm.ErrRecordNotFound
		}

		now := time.Now()
		var progress models.BattlePassQuestProgress
		if err := lockForUpdate(tx).
			Where(models.BattlePassQuestProgress{UserID: userID, QuestID: quest.ID}).
			Attrs(models.BattlePassQuestProgress{LastResetAt: now}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}
		if err := maybeReset(tx, &progress, &quest, season, now); err != nil {
			return err
		}
		if progress.Completed {
			return fmt.Errorf("%w: quest already completed", ErrRuleViolation)
		}

		value, err := computeProgress(tx, userID, &quest, questWindowStart(quest.ResetCadence, season, now))
		if err != nil {
			return err
		}
		if value < quest.ObjectiveTarget {
			return fmt.Errorf("%w: quest progress %d/%d", ErrRuleViolation, value, quest.ObjectiveTarget)
		}

		if quest.RequiredItemCode != 0 && quest.RequiredItemAmount > 0 {
			if err := consumeBagItem(tx, userID, quest.RequiredItemCode, quest.RequiredItemAmount); err != nil {
				return err
			}
		}

		if err := tx.Model(&progress).Updates(map[string]any{
			"progress":     quest.ObjectiveTarget,
			"completed":    true,
			"completed_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.BattlePassHistory{
			UserID:      userID,
			SeasonID:    season.ID,
			ActionType:  "quest_completed",
			Description: fmt.Sprintf("Quest completed: %s", quest.Title),
		}).Error; err != nil {
			return err
		}

		if quest.XPReward > 0 {
			xpResult, err = t.bp.AddXP(tx, userID, quest.XPReward, "quest")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return xpResult, nil
}

// consumeBagItem removes quantity of an item from the user's bag, failing with
// ErrRuleViolation when the bag holds too few.
func consumeBagItem(tx *gorm.DB, userID uint, itemCode int, quantity int) error {
	var bag models.Bag
	if err := tx.Where("user_id = ?", userID).First(&bag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: missing required item %d", ErrRuleViolation, itemCode)
		}
		return err
	}

	var bagItem models.BagItem
	err := lockForUpdate(tx).
		Where("bag_id = ? AND item_code = ?", bag.ID, itemCode).First(&bagItem).Error
	if err == gorm.ErrRecordNotFound || (err == nil && bagItem.Quantity < quantity) {
		return fmt.Errorf("%w: missing required item %d x%d", ErrRuleViolation, itemCode, quantity)
	}
	if err != nil {
		return err
	}

	if bagItem.Quantity == quantity {
		return tx.Delete(&bagItem).Error
	}
	return tx.Model(&bagItem).Update("quantity", bagItem.Quantity-quantity).Error
}

// SweepResets clears stale daily and weekly quest progress rows. Run by the
// scheduler so users who never open the quest list still get fresh windows.
func (t *QuestTracker) SweepResets(db *gorm.DB) error {
	season, err := t.bp.ActiveSeason(db)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	now := time.Now()
	for _, cadence := range []string{models.QuestResetDaily, models.QuestResetWeekly} {
		start := questWindowStart(cadence, season, now)
		err := db.Exec(`UPDATE battle_pass_quest_progresses SET progress = 0, completed = ?, completed_at = NULL, last_reset_at = ?
			WHERE quest_id IN (SELECT id FROM battle_pass_quests WHERE season_id = ? AND reset_cadence = ?)
			AND last_reset_at < ?`,
			false, now, season.ID, cadence, start).Error
		if err != nil {
			return err
		}
	}
	return nil
}

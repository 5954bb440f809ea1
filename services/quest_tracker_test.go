package services

import (
	"testing"
	"time"

	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedQuest(t *testing.T, db *gorm.DB, seasonID uint, objective string, target int, cadence string) *models.BattlePassQuest {
	t.Helper()
	quest := &models.BattlePassQuest{
		SeasonID:        seasonID,
		Title:           "Test Quest",
		ObjectiveType:   objective,
		ObjectiveTarget: target,
		ResetCadence:    cadence,
		XPReward:        100,
		IsActive:        true,
	}
	require.NoError(t, db.Create(quest).Error)
	return quest
}

func TestQuestWindowStart(t *testing.T) {
	season := &models.BattlePassSeason{StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	// Thursday afternoon.
	now := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)

	daily := questWindowStart(models.QuestResetDaily, season, now)
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), daily)

	weekly := questWindowStart(models.QuestResetWeekly, season, now)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), weekly)
	assert.Equal(t, time.Monday, weekly.Weekday())

	// Monday maps to itself.
	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		questWindowStart(models.QuestResetWeekly, season, monday))

	none := questWindowStart(models.QuestResetNone, season, now)
	assert.Equal(t, season.StartDate, none)
}

func TestQuestProgressRecomputedFromLogs(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	quest := seedQuest(t, db, fixture.season.ID, models.ObjectiveDiceNumber, 2, models.QuestResetNone)

	progress, err := tracker.UpdateProgress(db, user.ID, quest.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.Progress)

	value := 4
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.DiceGameHistory{
			UserID: user.ID, BetType: models.DiceBetNumber, BetValue: &value,
			BetAmount: 10, DiceResult: 4, Won: true, PrizeAmount: 50,
		}).Error)
	}
	// Losses never count.
	require.NoError(t, db.Create(&models.DiceGameHistory{
		UserID: user.ID, BetType: models.DiceBetNumber, BetValue: &value,
		BetAmount: 10, DiceResult: 2, Won: false,
	}).Error)

	progress, err = tracker.UpdateProgress(db, user.ID, quest.ID)
	require.NoError(t, err)
	// Clamped at the target.
	assert.Equal(t, 2, progress.Progress)
}

func TestCompleteQuestGrantsXP(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	quest := seedQuest(t, db, fixture.season.ID, models.ObjectiveBoxItems, 1, models.QuestResetNone)

	_, err := tracker.CompleteQuest(db, user.ID, quest.ID)
	assert.ErrorIs(t, err, ErrRuleViolation)

	require.NoError(t, db.Create(&models.BoxItemHistory{
		UserID: user.ID, UserCode: user.UserCode, ItemID: 1, BoxID: 1,
		Rarity: models.RarityCommon,
	}).Error)

	result, err := tracker.CompleteQuest(db, user.ID, quest.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 100, result.XP)
	assert.Equal(t, 1, result.NewLevel)

	var actions []string
	require.NoError(t, db.Model(&models.BattlePassHistory{}).
		Where("user_id = ?", user.ID).Order("id").Pluck("action_type", &actions).Error)
	assert.Contains(t, actions, "quest_completed")
	assert.Contains(t, actions, "xp_gained")

	// Completing twice rejects.
	_, err = tracker.CompleteQuest(db, user.ID, quest.ID)
	assert.ErrorIs(t, err, ErrRuleViolation)
}

func TestCompleteQuestConsumesRequiredItem(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	quest := &models.BattlePassQuest{
		SeasonID:           fixture.season.ID,
		Title:              "Offering",
		ObjectiveType:      models.ObjectiveGameItem,
		ObjectiveTarget:    3,
		ObjectiveMeta:      datatypes.JSON(`{"item_code":7777}`),
		ResetCadence:       models.QuestResetNone,
		XPReward:           50,
		IsActive:           true,
		RequiredItemCode:   7777,
		RequiredItemAmount: 3,
	}
	require.NoError(t, db.Create(quest).Error)

	item := &models.Item{Name: "Offering Stone", ItemCode: 7777, Rarity: models.RarityCommon}
	require.NoError(t, db.Create(item).Error)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return grantBagItem(tx, user.ID, item, 5)
	}))

	_, err := tracker.CompleteQuest(db, user.ID, quest.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, bagQuantity(t, db, user.ID, 7777))
}

func TestCompleteQuestMissingRequiredItem(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	quest := seedQuest(t, db, fixture.season.ID, models.ObjectiveBoxItems, 1, models.QuestResetNone)
	quest.RequiredItemCode = 8888
	quest.RequiredItemAmount = 1
	require.NoError(t, db.Save(quest).Error)

	require.NoError(t, db.Create(&models.BoxItemHistory{
		UserID: user.ID, ItemID: 1, BoxID: 1, Rarity: models.RarityCommon,
	}).Error)

	_, err := tracker.CompleteQuest(db, user.ID, quest.ID)
	assert.ErrorIs(t, err, ErrRuleViolation)

	// Failed completion leaves the quest claimable.
	var progress models.BattlePassQuestProgress
	require.NoError(t, db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).
		First(&progress).Error)
	assert.False(t, progress.Completed)
}

func TestDailyQuestResets(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	quest := seedQuest(t, db, fixture.season.ID, models.ObjectiveBoxItems, 5, models.QuestResetDaily)

	yesterday := time.Now().Add(-24 * time.Hour)
	completedAt := yesterday
	require.NoError(t, db.Create(&models.BattlePassQuestProgress{
		UserID: user.ID, QuestID: quest.ID,
		Progress: 5, Completed: true, CompletedAt: &completedAt,
		LastResetAt: yesterday,
	}).Error)

	progress, err := tracker.UpdateProgress(db, user.ID, quest.ID)
	require.NoError(t, err)

	assert.False(t, progress.Completed)
	assert.Nil(t, progress.CompletedAt)
	assert.Zero(t, progress.Progress)
}

func TestSweepResets(t *testing.T) {
	db := newTestDB(t)
	fixture := seedSeason(t, db)
	pass := NewBattlePass(NewExpiringCache(), nil)
	tracker := NewQuestTracker(pass)
	user := newTestUser(t, db, 0)

	daily := seedQuest(t, db, fixture.season.ID, models.ObjectiveBoxItems, 5, models.QuestResetDaily)
	permanent := seedQuest(t, db, fixture.season.ID, models.ObjectiveXP, 500, models.QuestResetNone)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Create(&models.BattlePassQuestProgress{
		UserID: user.ID, QuestID: daily.ID, Progress: 3, LastResetAt: yesterday,
	}).Error)
	require.NoError(t, db.Create(&models.BattlePassQuestProgress{
		UserID: user.ID, QuestID: permanent.ID, Progress: 3, LastResetAt: yesterday,
	}).Error)

	require.NoError(t, tracker.SweepResets(db))

	var dailyProgress, permanentProgress models.BattlePassQuestProgress
	require.NoError(t, db.Where("quest_id = ?", daily.ID).First(&dailyProgress).Error)
	require.NoError(t, db.Where("quest_id = ?", permanent.ID).First(&permanentProgress).Error)

	assert.Zero(t, dailyProgress.Progress)
	assert.Equal(t, 3, permanentProgress.Progress)
}

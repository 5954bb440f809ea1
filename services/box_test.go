package services

import (
	"testing"

	"arcade/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func defaultBoxType(slots int) *models.BoxType {
	return &models.BoxType{
		Name:              "Test Box",
		Price:             decimal.NewFromInt(10),
		BoostersAmount:    slots,
		ChanceCommon:      60,
		ChanceRare:        25,
		ChanceEpic:        10,
		ChanceLegendary:   5,
		MaxEpicItems:      models.TierCapUnlimited,
		MaxLegendaryItems: models.TierCapUnlimited,
	}
}

func seedAllTiers(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedItem(t, db, "Soulshot", models.RarityCommon)
	seedItem(t, db, "Enchant Scroll", models.RarityRare)
	seedItem(t, db, "Epic Jewel", models.RarityEpic)
	seedItem(t, db, "Zaken Earring", models.RarityLegendary)
}

func TestValidateBoxType(t *testing.T) {
	bt := defaultBoxType(5)
	assert.NoError(t, ValidateBoxType(bt))

	bad := defaultBoxType(5)
	bad.ChanceCommon = 50
	assert.ErrorIs(t, ValidateBoxType(bad), ErrInvalidWeights)

	bad = defaultBoxType(5)
	bad.MaxEpicItems = -2
	assert.ErrorIs(t, ValidateBoxType(bad), ErrInvalidWeights)

	bad = defaultBoxType(0)
	assert.ErrorIs(t, ValidateBoxType(bad), ErrInvalidWeights)
}

func TestPopulateBoxFillsEverySlot(t *testing.T) {
	db := newTestDB(t)
	seedAllTiers(t, db)

	bt := defaultBoxType(10)
	require.NoError(t, db.Create(bt).Error)
	box := &models.Box{UserID: 1, BoxTypeID: bt.ID}
	require.NoError(t, db.Create(box).Error)

	require.NoError(t, PopulateBox(db, box, bt, 42))

	var slots []models.BoxItem
	require.NoError(t, db.Preload("Item").Where("box_id = ?", box.ID).Find(&slots).Error)
	require.Len(t, slots, 10)

	for _, slot := range slots {
		assert.False(t, slot.Opened)
		// Stored probability is the tier chance of the slot's rarity.
		assert.Equal(t, tierChance(bt, slot.Item.Rarity), slot.Probability)
	}
}

func TestPopulateBoxCapZeroExcludesTier(t *testing.T) {
	db := newTestDB(t)
	seedAllTiers(t, db)

	bt := defaultBoxType(30)
	bt.MaxLegendaryItems = 0
	bt.MaxEpicItems = 0
	require.NoError(t, db.Create(bt).Error)
	box := &models.Box{UserID: 1, BoxTypeID: bt.ID}
	require.NoError(t, db.Create(box).Error)

	require.NoError(t, PopulateBox(db, box, bt, 7))

	var slots []models.BoxItem
	require.NoError(t, db.Preload("Item").Where("box_id = ?", box.ID).Find(&slots).Error)
	require.Len(t, slots, 30)

	for _, slot := range slots {
		assert.NotEqual(t, models.RarityLegendary, slot.Item.Rarity)
		assert.NotEqual(t, models.RarityEpic, slot.Item.Rarity)
	}
}

func TestPopulateBoxRespectsCaps(t *testing.T) {
	db := newTestDB(t)
	seedAllTiers(t, db)

	bt := defaultBoxType(50)
	bt.MaxLegendaryItems = 2
	bt.MaxEpicItems = 3
	require.NoError(t, db.Create(bt).Error)
	box := &models.Box{UserID: 1, BoxTypeID: bt.ID}
	require.NoError(t, db.Create(box).Error)

	require.NoError(t, PopulateBox(db, box, bt, 99))

	var slots []models.BoxItem
	require.NoError(t, db.Preload("Item").Where("box_id = ?", box.ID).Find(&slots).Error)

	perTier := map[string]int{}
	for _, slot := range slots {
		perTier[slot.Item.Rarity]++
	}
	assert.LessOrEqual(t, perTier[models.RarityLegendary], 2)
	assert.LessOrEqual(t, perTier[models.RarityEpic], 3)
}

func TestPopulateBoxExhaustion(t *testing.T) {
	db := newTestDB(t)
	// Only legendary items exist, and the tier closes after one slot.
	seedItem(t, db, "Zaken Earring", models.RarityLegendary)

	bt := defaultBoxType(5)
	bt.MaxLegendaryItems = 1
	require.NoError(t, db.Create(bt).Error)
	box := &models.Box{UserID: 1, BoxTypeID: bt.ID}
	require.NoError(t, db.Create(box).Error)

	err := PopulateBox(db, box, bt, 3)
	assert.ErrorIs(t, err, ErrPopulationExhausted)
}

func TestBuyBoxRollsBackChargeOnExhaustion(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 0)
	fundWallet(t, db, user.ID, 100)

	seedItem(t, db, "Zaken Earring", models.RarityLegendary)
	bt := defaultBoxType(5)
	bt.MaxLegendaryItems = 1
	require.NoError(t, db.Create(bt).Error)

	_, err := BuyBox(db, user.ID, bt.ID)
	assert.ErrorIs(t, err, ErrPopulationExhausted)

	assert.True(t, walletBalance(t, db, user.ID).Equal(decimal.NewFromInt(100)))

	var boxes int64
	require.NoError(t, db.Model(&models.Box{}).Where("user_id = ?", user.ID).Count(&boxes).Error)
	assert.Zero(t, boxes)
}

func TestBuyBoxReplacesExistingOfSameType(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 0)
	fundWallet(t, db, user.ID, 100)
	seedAllTiers(t, db)

	bt := defaultBoxType(5)
	require.NoError(t, db.Create(bt).Error)

	first, err := BuyBox(db, user.ID, bt.ID)
	require.NoError(t, err)
	second, err := BuyBox(db, user.ID, bt.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var boxes int64
	require.NoError(t, db.Model(&models.Box{}).Where("user_id = ?", user.ID).Count(&boxes).Error)
	assert.Equal(t, int64(1), boxes)

	assert.True(t, walletBalance(t, db, user.ID).Equal(decimal.NewFromInt(80)))
}

func TestOpenBoxConsumesSlotsAndDeletesEmptyBox(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 10)
	fundWallet(t, db, user.ID, 100)
	seedAllTiers(t, db)

	bt := defaultBoxType(2)
	require.NoError(t, db.Create(bt).Error)
	box, err := BuyBox(db, user.ID, bt.ID)
	require.NoError(t, err)

	first, err := OpenBox(db, user.ID, box.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Item)
	assert.Equal(t, 1, first.RemainingBoosters)
	assert.False(t, first.BoxDeleted)

	second, err := OpenBox(db, user.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RemainingBoosters)
	assert.True(t, second.BoxDeleted)

	var count int64
	require.NoError(t, db.Model(&models.Box{}).Where("id = ?", box.ID).Count(&count).Error)
	assert.Zero(t, count)

	// One ficha per open.
	assert.Equal(t, int64(8), fichasBalance(t, db, user.ID))

	var history int64
	require.NoError(t, db.Model(&models.BoxItemHistory{}).
		Where("user_id = ?", user.ID).Count(&history).Error)
	assert.Equal(t, int64(2), history)
}

func TestOpenBoxEmptyRollsBackCharge(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 5)
	seedAllTiers(t, db)

	bt := defaultBoxType(1)
	require.NoError(t, db.Create(bt).Error)
	box := &models.Box{UserID: user.ID, BoxTypeID: bt.ID}
	require.NoError(t, db.Create(box).Error)

	item := seedItem(t, db, "Opened Relic", models.RarityCommon)
	require.NoError(t, db.Create(&models.BoxItem{
		BoxID: box.ID, ItemID: item.ID, Probability: 60, Opened: true,
	}).Error)

	_, err := OpenBox(db, user.ID, box.ID)
	assert.ErrorIs(t, err, ErrEmptyContainer)
	assert.Equal(t, int64(5), fichasBalance(t, db, user.ID))
}

func TestResetBoxChargesFullPriceAndRepopulates(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, 10)
	fundWallet(t, db, user.ID, 100)
	seedAllTiers(t, db)

	bt := defaultBoxType(3)
	require.NoError(t, db.Create(bt).Error)
	box, err := BuyBox(db, user.ID, bt.ID)
	require.NoError(t, err)

	_, err = OpenBox(db, user.ID, box.ID)
	require.NoError(t, err)

	require.NoError(t, ResetBox(db, user.ID, box.ID))

	var unopened int64
	require.NoError(t, db.Model(&models.BoxItem{}).
		Where("box_id = ? AND opened = ?", box.ID, false).Count(&unopened).Error)
	assert.Equal(t, int64(3), unopened)

	// Purchase + reset, 10 each.
	assert.True(t, walletBalance(t, db, user.ID).Equal(decimal.NewFromInt(80)))
}

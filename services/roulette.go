package services

import (
	"encoding/json"
	"time"

	"arcade/models"

	"gorm.io/gorm"
)

const rouletteSpinCost = 1

// RouletteResult is the settled outcome of one paid spin.
type RouletteResult struct {
	Fail   bool         `json:"fail"`
	Prize  *models.Item `json:"prize,omitempty"`
	Fichas int64        `json:"fichas"`
}

// SpinRoulette charges one ficha, draws over the prize table with the
// configured fail chance and writes the audit row. The audit row is written
// for every drawn spin, win or fail; a rejected charge writes nothing.
func SpinRoulette(db *gorm.DB, userID uint) (*RouletteResult, error) {
	var result RouletteResult

	err := PlayRound(db, userID, rouletteSpinCost, "roulette", "Roulette spin", func(tx *gorm.DB, user *models.User) error {
		var prizes []models.Prize
		if err := tx.Preload("Item").Find(&prizes).Error; err != nil {
			return err
		}

		failChance := 20
		var cfg models.GameConfig
		if err := tx.First(&cfg).Error; err == nil {
			failChance = cfg.FailChance
		}

		outcomes := make([]WeightedOutcome, len(prizes))
		byID := make(map[uint]*models.Prize, len(prizes))
		for i := range prizes {
			outcomes[i] = WeightedOutcome{ID: prizes[i].ID, Weight: float64(prizes[i].Weight)}
			byID[prizes[i].ID] = &prizes[i]
		}

		draw, err := DrawWeighted(outcomes, failChance, NewSeed())
		if err != nil {
			return err
		}

		snapshot, err := draw.SnapshotJSON()
		if err != nil {
			return err
		}

		audit := models.SpinHistory{
			UserID:          user.ID,
			UserCode:        user.UserCode,
			PrizeID:         draw.ChosenID,
			Seed:            draw.Seed,
			FailChance:      failChance,
			WeightsSnapshot: snapshot,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if draw.ChosenID == nil {
			result.Fail = true
			result.Fichas = user.Fichas
			return nil
		}

		chosen := byID[*draw.ChosenID]
		if err := grantBagItem(tx, user.ID, &chosen.Item, 1); err != nil {
			return err
		}

		result.Prize = &chosen.Item
		result.Fichas = user.Fichas
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SpinAuditRecord is the dispute-resolution view of one audit row; the stored
// snapshot blob is deserialized only here.
type SpinAuditRecord struct {
	Seed            int64           `json:"seed"`
	WeightsSnapshot map[string]any  `json:"weights_snapshot"`
	ChosenOutcomeID *uint           `json:"chosen_outcome_id"`
	FailChance      int             `json:"fail_chance"`
	CreatedAt       time.Time       `json:"created_at"`
}

func unmarshalSnapshot(blob []byte, dst *map[string]any) error {
	return json.Unmarshal(blob, dst)
}

// ExportSpinAudit returns the audit records for one account in a time range.
func ExportSpinAudit(db *gorm.DB, userID uint, from, to time.Time) ([]SpinAuditRecord, error) {
	var rows []models.SpinHistory
	err := db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]SpinAuditRecord, 0, len(rows))
	for _, row := range rows {
		rec := SpinAuditRecord{
			Seed:            row.Seed,
			ChosenOutcomeID: row.PrizeID,
			FailChance:      row.FailChance,
			CreatedAt:       row.CreatedAt,
		}
		if len(row.WeightsSnapshot) > 0 {
			if err := unmarshalSnapshot(row.WeightsSnapshot, &rec.WeightsSnapshot); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

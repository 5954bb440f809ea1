package services

import (
	"encoding/json"
	"math/rand"

	"arcade/models"

	"gorm.io/gorm"
)

// SlotSpinResult is the settled outcome of one spin.
type SlotSpinResult struct {
	Symbols        []string     `json:"symbols"`
	IsJackpot      bool         `json:"is_jackpot"`
	FichasWon      int64        `json:"fichas_won"`
	ItemWon        *models.Item `json:"item_won,omitempty"`
	CurrentJackpot int64        `json:"current_jackpot"`
	Fichas         int64        `json:"fichas"`
}

// resolveSlotPrize finds the best prize for the observed reels: the matched
// symbol's prize row with the highest matches_required not exceeding the
// observed count.
func resolveSlotPrize(tx *gorm.DB, configID uint, counts map[uint]int) (*models.SlotMachinePrize, error) {
	var best *models.SlotMachinePrize
	for symbolID, count := range counts {
		var prize models.SlotMachinePrize
		err := tx.Preload("Item").
			Where("config_id = ? AND symbol_id = ? AND matches_required <= ?", configID, symbolID, count).
			Order("matches_required DESC").
			First(&prize).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if best == nil || prize.MatchesRequired > best.MatchesRequired {
			p := prize
			best = &p
		}
	}
	return best, nil
}

// SpinSlots charges the spin cost, rolls three independent weighted reels and
// settles. The jackpot is its own Bernoulli draw, decoupled from the reels:
// a hit pays the progressive pot and resets it to the floor, a miss feeds the
// pot with a fraction of the spin cost.
func SpinSlots(db *gorm.DB, userID uint) (*SlotSpinResult, error) {
	var result SlotSpinResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var cfg models.SlotMachineConfig
		if err := lockForUpdate(tx).
			Where("is_active = ?", true).First(&cfg).Error; err != nil {
			return err
		}

		user, err := Debit(tx, userID, cfg.CostPerSpin, "slot_machine", "Slot machine spin")
		if err != nil {
			return err
		}

		var symbols []models.SlotMachineSymbol
		if err := tx.Find(&symbols).Error; err != nil {
			return err
		}
		if len(symbols) == 0 {
			return ErrInvalidWeights
		}

		weights := make([]float64, len(symbols))
		for i := range symbols {
			weights[i] = float64(symbols[i].Weight)
		}

		rng := rand.New(rand.NewSource(NewSeed()))

		reels := make([]models.SlotMachineSymbol, 3)
		counts := make(map[uint]int, 3)
		names := make([]string, 3)
		for i := 0; i < 3; i++ {
			idx, err := PickIndex(rng, weights)
			if err != nil {
				return err
			}
			reels[i] = symbols[idx]
			counts[symbols[idx].ID]++
			names[i] = symbols[idx].Symbol
		}

		isJackpot := rng.Float64() < cfg.JackpotChance/100

		var fichasWon int64
		var prizeWon *models.SlotMachinePrize
		var itemWon *models.Item

		if isJackpot {
			fichasWon = cfg.JackpotAmount
			cfg.JackpotAmount = cfg.JackpotFloor
		} else {
			prizeWon, err = resolveSlotPrize(tx, cfg.ID, counts)
			if err != nil {
				return err
			}
			if prizeWon != nil {
				fichasWon = prizeWon.FichasPrize
				if prizeWon.Item != nil {
					itemWon = prizeWon.Item
					if err := grantBagItem(tx, user.ID, prizeWon.Item, 1); err != nil {
						return err
					}
				}
			}
			cfg.JackpotAmount += int64(float64(cfg.CostPerSpin) * cfg.JackpotContribution)
		}

		if err := tx.Model(&cfg).Update("jackpot_amount", cfg.JackpotAmount).Error; err != nil {
			return err
		}

		if fichasWon > 0 {
			updated, err := Credit(tx, user.ID, fichasWon, "slot_machine", "Slot machine win")
			if err != nil {
				return err
			}
			user.Fichas = updated.Fichas
		}

		reelsJSON, err := json.Marshal(names)
		if err != nil {
			return err
		}
		history := models.SlotMachineHistory{
			UserID:        user.ID,
			ConfigID:      cfg.ID,
			SymbolsResult: string(reelsJSON),
			IsJackpot:     isJackpot,
			FichasWon:     fichasWon,
		}
		if prizeWon != nil {
			history.PrizeWonID = &prizeWon.ID
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		result = SlotSpinResult{
			Symbols:        names,
			IsJackpot:      isJackpot,
			FichasWon:      fichasWon,
			ItemWon:        itemWon,
			CurrentJackpot: cfg.JackpotAmount,
			Fichas:         user.Fichas,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

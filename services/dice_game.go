package services

import (
	"fmt"
	"math/rand"

	"arcade/models"

	"gorm.io/gorm"
)

// DicePlayRequest is one wager. BetValue is only read for "number" bets.
type DicePlayRequest struct {
	BetType   string
	BetValue  int
	BetAmount int64
}

// DicePlayResult is the settled outcome of one play.
type DicePlayResult struct {
	DiceResult  int     `json:"dice_result"`
	Won         bool    `json:"won"`
	Multiplier  float64 `json:"multiplier"`
	PrizeAmount int64   `json:"prize_amount"`
	Fichas      int64   `json:"fichas"`
}

// resolveDice decides a wager from the rolled face alone.
func resolveDice(cfg *models.DiceGameConfig, betType string, betValue, result int) (bool, float64) {
	switch betType {
	case models.DiceBetNumber:
		if result == betValue {
			return true, cfg.SpecificNumberMultiplier
		}
	case models.DiceBetEven:
		if result%2 == 0 {
			return true, cfg.EvenOddMultiplier
		}
	case models.DiceBetOdd:
		if result%2 != 0 {
			return true, cfg.EvenOddMultiplier
		}
	case models.DiceBetHigh:
		if result >= 4 {
			return true, cfg.HighLowMultiplier
		}
	case models.DiceBetLow:
		if result <= 3 {
			return true, cfg.HighLowMultiplier
		}
	}
	return false, 0
}

// checkDiceGate enforces the betting-pattern rules before any charge:
// the bet type must differ from the previous play's, every 5th cumulative
// play must be a "number" bet, and "number" bets carry a minimum stake.
func checkDiceGate(db *gorm.DB, cfg *models.DiceGameConfig, userID uint, req *DicePlayRequest) error {
	if req.BetType == models.DiceBetNumber && req.BetAmount < cfg.MinNumberBet {
		return fmt.Errorf("%w: number bets require at least %d fichas", ErrRuleViolation, cfg.MinNumberBet)
	}

	var last models.DiceGameHistory
	err := db.Where("user_id = ?", userID).Order("id DESC").First(&last).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil && last.BetType == req.BetType {
		return fmt.Errorf("%w: bet type must differ from the previous play", ErrRuleViolation)
	}

	var played int64
	if err := db.Model(&models.DiceGameHistory{}).
		Where("user_id = ?", userID).Count(&played).Error; err != nil {
		return err
	}
	if (played+1)%5 == 0 && req.BetType != models.DiceBetNumber {
		return fmt.Errorf("%w: every 5th play must be a number bet", ErrRuleViolation)
	}

	return nil
}

// PlayDice validates and gates the wager, then charges, rolls and settles in
// one transaction. Gate violations reject with no debit.
func PlayDice(db *gorm.DB, userID uint, req *DicePlayRequest) (*DicePlayResult, error) {
	var cfg models.DiceGameConfig
	if err := db.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		return nil, err
	}

	switch req.BetType {
	case models.DiceBetNumber, models.DiceBetEven, models.DiceBetOdd, models.DiceBetHigh, models.DiceBetLow:
	default:
		return nil, fmt.Errorf("%w: unknown bet type %q", ErrRuleViolation, req.BetType)
	}

	if req.BetAmount < cfg.MinBet || req.BetAmount > cfg.MaxBet {
		return nil, fmt.Errorf("%w: bet must be between %d and %d fichas", ErrRuleViolation, cfg.MinBet, cfg.MaxBet)
	}

	if req.BetType == models.DiceBetNumber && (req.BetValue < 1 || req.BetValue > 6) {
		return nil, fmt.Errorf("%w: number must be between 1 and 6", ErrRuleViolation)
	}

	if err := checkDiceGate(db, &cfg, userID, req); err != nil {
		return nil, err
	}

	var result DicePlayResult

	err := PlayRound(db, userID, req.BetAmount, "dice", "Dice wager", func(tx *gorm.DB, user *models.User) error {
		rng := rand.New(rand.NewSource(NewSeed()))
		face := rng.Intn(6) + 1

		won, multiplier := resolveDice(&cfg, req.BetType, req.BetValue, face)

		var prize int64
		if won {
			prize = int64(float64(req.BetAmount) * multiplier)
			updated, err := Credit(tx, user.ID, prize, "dice", "Dice win")
			if err != nil {
				return err
			}
			user.Fichas = updated.Fichas
		}

		history := models.DiceGameHistory{
			UserID:      user.ID,
			BetType:     req.BetType,
			BetAmount:   req.BetAmount,
			DiceResult:  face,
			Won:         won,
			PrizeAmount: prize,
		}
		if req.BetType == models.DiceBetNumber {
			value := req.BetValue
			history.BetValue = &value
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		result = DicePlayResult{
			DiceResult:  face,
			Won:         won,
			Multiplier:  multiplier,
			PrizeAmount: prize,
			Fichas:      user.Fichas,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

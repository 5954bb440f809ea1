package services

import "errors"

// Error taxonomy shared by every game. Controllers map these onto HTTP codes
// with errors.Is; anything else is treated as an internal failure.
var (
	// ErrInsufficientFunds rejects a charge; nothing has been mutated.
	ErrInsufficientFunds = errors.New("insufficient fichas balance")

	// ErrInsufficientSaldo rejects a wallet (real money) charge.
	ErrInsufficientSaldo = errors.New("insufficient wallet balance")

	// ErrInvalidWeights marks an empty or all-zero weight list.
	ErrInvalidWeights = errors.New("weighted draw requires at least one positive weight")

	// ErrInvalidFailChance marks a fail chance outside [0,100).
	ErrInvalidFailChance = errors.New("fail chance must be in [0,100)")

	// ErrPopulationExhausted means no rarity tier has capacity or items left.
	// Any charge already applied in the same transaction is rolled back.
	ErrPopulationExhausted = errors.New("no rarity tier can populate another slot")

	// ErrEmptyContainer means the box has no unopened slots.
	ErrEmptyContainer = errors.New("box has no unopened slots")

	// ErrRuleViolation rejects a play before any charge (betting-pattern rules).
	ErrRuleViolation = errors.New("play violates game rules")

	// ErrConcurrencyConflict means a concurrent writer won; retry the whole call.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

package helpers

import (
	"errors"

	"arcade/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ServiceError maps a service failure onto the wire error code. Unknown
// errors become a 500 so internals never leak into the response body.
func ServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return JSONErrorStatus(c, fiber.StatusPaymentRequired, "INSUFFICIENT_FICHAS")
	case errors.Is(err, services.ErrInsufficientSaldo):
		return JSONErrorStatus(c, fiber.StatusPaymentRequired, "INSUFFICIENT_BALANCE")
	case errors.Is(err, services.ErrRuleViolation):
		return JSONError(c, "RULE_VIOLATION")
	case errors.Is(err, services.ErrEmptyContainer):
		return JSONError(c, "BOX_EMPTY")
	case errors.Is(err, services.ErrPopulationExhausted):
		return JSONError(c, "BOX_POPULATION_EXHAUSTED")
	case errors.Is(err, services.ErrInvalidWeights), errors.Is(err, services.ErrInvalidFailChance):
		return JSONError(c, "INVALID_GAME_CONFIG")
	case errors.Is(err, services.ErrConcurrencyConflict):
		return JSONErrorStatus(c, fiber.StatusConflict, "CONCURRENT_UPDATE_RETRY")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JSONErrorStatus(c, fiber.StatusNotFound, "NOT_FOUND")
	default:
		return JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR")
	}
}

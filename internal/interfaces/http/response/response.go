package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	domainerrors "aura-creatures.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error to its HTTP shape. AppErrors carry their own
// status and code; bare sentinels are mapped here; anything else is a 500.
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)
	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithPayload sends an error response with an arbitrary body. Used for
// 402 challenges whose shape is fixed by the payment protocol.
func ErrorWithPayload(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrInvalidAddress):
		return domainerrors.BadRequest("INVALID_ADDRESS", "invalid wallet address format")
	case errors.Is(err, domainerrors.ErrRateLimited):
		return domainerrors.RateLimited("rate limit exceeded")
	case errors.Is(err, domainerrors.ErrGenerationInFlight):
		return domainerrors.Conflict("GENERATION_IN_FLIGHT", "generation already in progress for this wallet")
	case errors.Is(err, domainerrors.ErrPaymentRequired):
		return domainerrors.PaymentRequired("PAYMENT_REQUIRED", "upstream image generation requires payment")
	case errors.Is(err, domainerrors.ErrAlreadyMinted):
		return domainerrors.BadRequest("ALREADY_MINTED", "wallet already minted a creature")
	case errors.Is(err, domainerrors.ErrSupplyExhausted):
		return domainerrors.BadRequest("SUPPLY_EXHAUSTED", "max supply reached")
	case errors.Is(err, domainerrors.ErrNotGenerated):
		return domainerrors.BadRequest("NOT_GENERATED", "no creature generated for this wallet")
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	default:
		return domainerrors.InternalError(err)
	}
}

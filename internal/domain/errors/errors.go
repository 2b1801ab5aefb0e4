package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrPaymentRequired    = errors.New("upstream payment required")
	ErrPaymentUnverified  = errors.New("payment not verified")
	ErrStorage            = errors.New("content storage failed")
	ErrAlreadyMinted      = errors.New("wallet already minted")
	ErrSupplyExhausted    = errors.New("max supply reached")
	ErrNotGenerated       = errors.New("token not generated")
	ErrContractQuery      = errors.New("contract query failed")
)

// AppError represents an application error with an HTTP status and a
// machine-readable code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func BadRequest(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, ErrInvalidInput)
}

func Conflict(code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message, ErrAlreadyExists)
}

func RateLimited(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, "RATE_LIMITED", message, ErrRateLimited)
}

func PaymentRequired(code, message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, code, message, ErrPaymentRequired)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
}

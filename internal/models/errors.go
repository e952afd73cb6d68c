package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found") // отсутствует или принадлежит другому пользователю

	// Request & State Errors
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidState    = errors.New("operation is not allowed in the current state")
	ErrPaymentRequired = errors.New("payment is required before fulfillment")

	// Payment Errors
	ErrAlreadyPaid         = errors.New("meditation is already paid")
	ErrPaymentNotCompleted = errors.New("payment is not completed by the provider")
	ErrPaymentDeclined     = errors.New("payment was declined by the provider")
	ErrUnknownProvider     = errors.New("unknown payment provider")

	// Upstream Errors
	ErrGenerationFailed = errors.New("script generation failed")
	ErrPipelineFailed   = errors.New("fulfillment pipeline failed")
	ErrDeliveryFailed   = errors.New("delivery failed")

	// Authentication Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
)

// Коды ошибок для ответа API.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodePaymentRequired = "PAYMENT_REQUIRED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidState    = "INVALID_STATE"
	ErrCodeAlreadyPaid     = "ALREADY_PAID"
	ErrCodeGeneration      = "GENERATION_FAILED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeBotError   = "BOT_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
)

// BotError is the base of every typed error in this module. Code identifies
// the category, Context carries structured detail for logs.
type BotError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func newBotError(message, code string, statusCode int, context map[string]any, cause error) *BotError {
	return &BotError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
		Cause:      cause,
	}
}

func (e *BotError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

func NewBotError(message, code string, statusCode int, context map[string]any) *BotError {
	return newBotError(message, code, statusCode, context, nil)
}

func (e *BotError) WithCause(cause error) *BotError {
	e.Cause = cause
	return e
}

// APIError wraps a failed Discord REST call.
type APIError struct {
	*BotError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		BotError: newBotError(message, CodeAPIError, statusCode, context, nil),
	}
}

// ValidationError marks the expected, recoverable outcome: a message that is
// not a waifu announcement, or a cooldown query without timing state. Callers
// check it with IsValidation and move on rather than surfacing it.
type ValidationError struct {
	*BotError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	context := map[string]any{"field": field, "value": value}
	return &ValidationError{
		BotError: newBotError(message, CodeValidation, 400, context, nil),
		Field:    field,
		Value:    value,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CacheError wraps a failed Redis operation.
type CacheError struct {
	*BotError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	context := map[string]any{"operation": operation, "key": key}
	return &CacheError{
		BotError:  newBotError(message, CodeCache, 500, context, cause),
		Operation: operation,
		Key:       key,
	}
}

// ServiceError wraps a failure inside one of the assembled services.
type ServiceError struct {
	*BotError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	context := map[string]any{"service": service, "operation": operation}
	return &ServiceError{
		BotError:  newBotError(message, CodeService, 500, context, cause),
		Service:   service,
		Operation: operation,
	}
}

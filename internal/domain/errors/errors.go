// Package errors defines the application error taxonomy: validation errors
// surface as 400, authorization errors as 401/403, and upstream/backend
// failures as 500 with the internal detail logged rather than leaked.
package errors

import (
	"net/http"

	"medtrack/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types.
var (
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"user not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"this email is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"email or password is incorrect",
		"",
	)

	ErrSessionExpired = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_EXPIRED",
		"session has expired, please sign in again",
		"",
	)

	ErrMedicationNotFound = NewBaseError(
		http.StatusNotFound,
		"MEDICATION_NOT_FOUND",
		"medication not found",
		"",
	)

	ErrDoseRecordNotFound = NewBaseError(
		http.StatusNotFound,
		"DOSE_RECORD_NOT_FOUND",
		"dose record not found",
		"",
	)

	ErrCaregiverNotFound = NewBaseError(
		http.StatusNotFound,
		"CAREGIVER_NOT_FOUND",
		"caregiver not found",
		"",
	)

	ErrNoCaregiverRelationship = NewBaseError(
		http.StatusForbidden,
		"NO_CAREGIVER_RELATIONSHIP",
		"no active caregiver relationship with this patient",
		"",
	)

	ErrVoiceNoteNotFound = NewBaseError(
		http.StatusNotFound,
		"VOICE_NOTE_NOT_FOUND",
		"voice note not found",
		"",
	)

	ErrNotificationNotFound = NewBaseError(
		http.StatusNotFound,
		"NOTIFICATION_NOT_FOUND",
		"notification not found",
		"",
	)

	ErrInvalidPhoneNumber = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PHONE_NUMBER",
		"destination phone must be in international +<countrycode><number> form",
		"",
	)

	ErrSMSCreditsExhausted = NewBaseError(
		http.StatusPaymentRequired,
		"SMS_CREDITS_EXHAUSTED",
		"monthly SMS allowance has been used up",
		"",
	)

	ErrScannerUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"SCANNER_UNAVAILABLE",
		"label scanning is not configured",
		"",
	)

	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		"request validation failed",
		"",
	)
)

// NewDatabaseExecuteError wraps a database failure as an upstream error. The
// original error goes into details for logs; callers only see a generic 500.
func NewDatabaseExecuteError(err error, message string) *BaseError {
	return NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_ERROR",
		message,
		err.Error(),
	)
}

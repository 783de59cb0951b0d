package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Domain codes.
	ErrValidation        ErrorCode = "VALIDATION_ERROR"
	ErrInvalidFormat     ErrorCode = "INVALID_FORMAT"
	ErrOutOfWindow       ErrorCode = "OUT_OF_WINDOW"
	ErrEventNotFound     ErrorCode = "EVENT_NOT_FOUND"
	ErrReminderNotFound  ErrorCode = "REMINDER_NOT_FOUND"
	ErrDuplicateReminder ErrorCode = "DUPLICATE_REMINDER"
	ErrPersistence       ErrorCode = "PERSISTENCE_ERROR"
)

// AppError is the structured error carried from services up to the
// controller boundary. Mutating paths return it instead of panicking so
// handlers can always render a response envelope.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap tags an opaque persistence failure without losing the cause.
func Wrap(err error, message string) *AppError {
	return &AppError{Code: ErrPersistence, Message: message, Err: err}
}

package insight

import "errors"

// ErrorCode classifies submit failures.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNetwork    ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout    ErrorCode = "TIMEOUT_ERROR"
)

// Error is a submit failure surfaced to the user as a single message. None of
// them are fatal; the submit gate re-arms after every one.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"` // set on validation failures
}

func (e *Error) Error() string { return e.Message }

func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message, Field: field}
}

func NewNetworkError(message string) *Error {
	return &Error{Code: ErrCodeNetwork, Message: message}
}

func NewTimeoutError(message string) *Error {
	return &Error{Code: ErrCodeTimeout, Message: message}
}

// AsError unwraps err into the submit taxonomy, if it belongs to it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }
func IsNetwork(err error) bool    { return hasCode(err, ErrCodeNetwork) }
func IsTimeout(err error) bool    { return hasCode(err, ErrCodeTimeout) }

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

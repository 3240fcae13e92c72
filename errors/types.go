package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Invocation errors
	ErrCodeMissingArgument  ErrorCode = "MISSING_ARGUMENT"
	ErrCodeInvalidDirectory ErrorCode = "INVALID_DIRECTORY"

	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// PollwatchError represents a structured error with context
type PollwatchError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PollwatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PollwatchError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PollwatchError) WithDetail(key string, value interface{}) *PollwatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PollwatchError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PollwatchError
func New(code ErrorCode, message string) *PollwatchError {
	return &PollwatchError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PollwatchError
func Wrap(err error, code ErrorCode, message string) *PollwatchError {
	return &PollwatchError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first PollwatchError in err's chain.
func As(err error) (*PollwatchError, bool) {
	for err != nil {
		if pwErr, ok := err.(*PollwatchError); ok {
			return pwErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific PollwatchError code
func Is(err error, code ErrorCode) bool {
	pwErr, ok := As(err)
	if !ok {
		return false
	}
	return pwErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	pwErr, ok := As(err)
	if !ok {
		return ""
	}
	return pwErr.Code
}

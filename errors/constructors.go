package errors

import (
	"fmt"
)

// MissingArgument creates an error for a missing positional argument
func MissingArgument(name string) *PollwatchError {
	return New(ErrCodeMissingArgument, fmt.Sprintf("missing required argument: %s", name)).
		WithDetail("argument", name)
}

// InvalidDirectory creates an error for a path that is not an existing directory
func InvalidDirectory(path string, cause error) *PollwatchError {
	msg := fmt.Sprintf("'%s' is not a valid directory", path)
	var err *PollwatchError
	if cause != nil {
		err = Wrap(cause, ErrCodeInvalidDirectory, msg)
	} else {
		err = New(ErrCodeInvalidDirectory, msg)
	}
	return err.WithDetail("path", path)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PollwatchError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *PollwatchError {
	return New(ErrCodeConfigInvalid, reason)
}

// ConfigValidation creates a validation error for a single config field
func ConfigValidation(field, reason string) *PollwatchError {
	return New(ErrCodeConfigValidation, fmt.Sprintf("%s: %s", field, reason)).
		WithDetail("field", field)
}

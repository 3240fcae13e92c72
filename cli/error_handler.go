package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/pollwatch/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	// Program is the command name used in the usage line.
	Program string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(program string, verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Program: program,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its error code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	pwErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeMissingArgument:
		fmt.Fprintf(out, "Usage: %s <directory_to_monitor>\n", h.Program)

	case errors.ErrCodeInvalidDirectory:
		fmt.Fprintf(out, "Error: '%v' is not a valid directory\n", pwErr.Details["path"])

	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "Error: configuration file not found: %v\n", pwErr.Details["path"])

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "Error: invalid configuration: %s\n", describe(pwErr))

	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	if h.Verbose && pwErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", pwErr.ToJSON())
	}
	return err
}

// describe returns the message with the root cause appended, if any.
func describe(e *errors.PollwatchError) string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

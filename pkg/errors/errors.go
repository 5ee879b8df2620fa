package errors

import (
	"errors"
	"fmt"
)

// Error codes shared by every validator in the module.
const (
	CodeInvalidGrid     = "INVALID_GRID"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Process exit statuses reported by the CLI for each error kind.
const (
	ExitInternal = 1
	ExitUsage    = 2
	ExitInvalid  = 3
)

// AppError is a stable error contract: callers match on Code, the optional Internal
// error keeps the root cause for logging and errors.Is / errors.As inspection.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ExitCode int    `json:"-"`
	Internal error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is reports whether target is an AppError of the same kind. A target with an empty
// Message matches every error of its Code.
func (e *AppError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*AppError)
	if !ok || t == nil {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Kind sentinels. Each matches any error of its Code via errors.Is.
var (
	ErrInvalidGrid = &AppError{
		Code:     CodeInvalidGrid,
		ExitCode: ExitInvalid,
	}

	ErrValidation = &AppError{
		Code:     CodeValidation,
		ExitCode: ExitInvalid,
	}

	ErrInvalidArgument = &AppError{
		Code:     CodeInvalidArgument,
		ExitCode: ExitUsage,
	}

	ErrInternal = &AppError{
		Code:     CodeInternal,
		Message:  "Internal error",
		ExitCode: ExitInternal,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, exitCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: exitCode,
	}
}

// Wrap turns any error into an internal AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  message,
		ExitCode: ExitInternal,
		Internal: err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternal.WithInternal(err)
}

// NewInvalidGrid reports a malformed parameter grid.
func NewInvalidGrid(message string) *AppError {
	return New(CodeInvalidGrid, message, ErrInvalidGrid.ExitCode)
}

// NewValidation reports a malformed input collection.
func NewValidation(message string) *AppError {
	return New(CodeValidation, message, ErrValidation.ExitCode)
}

// NewInvalidArgument reports an argument of the wrong shape or type.
func NewInvalidArgument(message string) *AppError {
	return New(CodeInvalidArgument, message, ErrInvalidArgument.ExitCode)
}

// ExitCode returns the exit status for err, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	appErr := FromError(err)
	if appErr.ExitCode == 0 {
		return ExitInternal
	}
	return appErr.ExitCode
}

package record

import (
	"errors"
	"fmt"
)

// Error represents a failed store or collaborator operation.
//
// Error kinds:
//   - Duplicate key: initialize on an id that already exists
//   - Not found: save, delete or revert on a missing id
//   - Invalid input: wrong parameter count, empty id, bad revert step
//   - External I/O: the spreadsheet, the JSON file or the journal failed
//
// External I/O errors wrap the collaborator error so errors.Is still sees it.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ModuleID identifies the affected module, when there is one.
	ModuleID string

	// Err is the underlying collaborator error for ErrCodeExternalIO.
	Err error
}

// ErrorCode categorizes record errors.
type ErrorCode string

const (
	// ErrCodeDuplicateKey indicates initialize was called on an existing id.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// ErrCodeNotFound indicates the module id does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates malformed arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeExternalIO indicates a spreadsheet, file or journal failure.
	ErrCodeExternalIO ErrorCode = "EXTERNAL_IO"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.ModuleID != "" {
		msg = fmt.Sprintf("%s (module=%s)", msg, e.ModuleID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsDuplicateKey returns true if the error is a duplicate key error.
func IsDuplicateKey(err error) bool { return CodeOf(err) == ErrCodeDuplicateKey }

// IsNotFound returns true if the error is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsInvalidInput returns true if the error is an invalid input error.
func IsInvalidInput(err error) bool { return CodeOf(err) == ErrCodeInvalidInput }

// IsExternalIO returns true if the error came from an external collaborator.
func IsExternalIO(err error) bool { return CodeOf(err) == ErrCodeExternalIO }

// NewDuplicateKeyError creates an Error for initialize on an existing id.
func NewDuplicateKeyError(moduleID string) *Error {
	return &Error{
		Code:     ErrCodeDuplicateKey,
		Message:  "module already exists",
		ModuleID: moduleID,
	}
}

// NewNotFoundError creates an Error for a missing module id.
func NewNotFoundError(moduleID string) *Error {
	return &Error{
		Code:     ErrCodeNotFound,
		Message:  "module not found",
		ModuleID: moduleID,
	}
}

// NewInvalidInputError creates an Error for malformed arguments.
func NewInvalidInputError(moduleID, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf(format, args...),
		ModuleID: moduleID,
	}
}

// NewExternalIOError wraps a collaborator failure.
// Returns nil when err is nil so call sites can wrap unconditionally.
func NewExternalIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) && re.Code == ErrCodeExternalIO {
		return err
	}
	return &Error{
		Code:    ErrCodeExternalIO,
		Message: op,
		Err:     err,
	}
}

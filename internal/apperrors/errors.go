package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrFormat indicates that a batch or line violates a SIF encoding constraint,
// e.g. a required header field is missing or an amount has a non-integral fils component.
var ErrFormat = errors.New("sif format error")

// ErrValidationBlocked indicates that a batch has error-severity rule failures
// and must not be encoded or transmitted until corrected.
var ErrValidationBlocked = errors.New("batch blocked by validation errors")

// ErrConnectionNotActive indicates that the target bank connection is not in
// an active state and cannot accept submissions.
var ErrConnectionNotActive = errors.New("bank connection is not active")

// ErrTransmission indicates a connector-level I/O or protocol failure.
// It is recoverable up to the submission's retry budget.
var ErrTransmission = errors.New("transmission failed")

// ErrRetryExhausted indicates a submission permanently failed after exhausting
// its retry budget.
var ErrRetryExhausted = errors.New("submission retries exhausted")

// ErrStateTransition indicates an operation was attempted in a lifecycle state
// that does not permit it.
var ErrStateTransition = errors.New("invalid state transition")

// AppError carries a status code alongside a message and wrapped cause.
// Repositories use it to surface infrastructure failures without leaking driver detail.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

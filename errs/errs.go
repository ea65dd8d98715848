package errs

import (
	"github.com/pkg/errors"
)

// Conflict causes, kept distinct so operators know which constraint to fix.
const (
	ConflictSlotOccupied     = "slot occupied"
	ConflictPatientScheduled = "patient already scheduled"
)

// ValidationError rejects malformed or missing input before any store is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError from a plain reason string.
func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

// NotFoundError reports an operation against a key with no existing record.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return e.Reason
}

// NotFound builds a NotFoundError from a plain reason string.
func NotFound(reason string) error {
	return &NotFoundError{Reason: reason}
}

// ConflictError reports an invariant that would be violated by a mutation.
// Cause is one of the Conflict* constants.
type ConflictError struct {
	Cause  string
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return e.Cause
	}
	return e.Cause + ": " + e.Detail
}

// Conflict builds a ConflictError with the given cause and detail.
func Conflict(cause, detail string) error {
	return &ConflictError{Cause: cause, Detail: detail}
}

// PartialFailure reports a bulk operation where some entries failed. It is
// not a hard failure of the whole call; callers surface per-entry status.
type PartialFailure struct {
	Failed int
	Total  int
}

func (e *PartialFailure) Error() string {
	return "partial failure: some entries could not be applied"
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsPartialFailure reports whether err is (or wraps) a PartialFailure.
func IsPartialFailure(err error) bool {
	var pf *PartialFailure
	return errors.As(err, &pf)
}

// ConflictCause extracts the cause from a ConflictError, or "" when err is
// not a conflict.
func ConflictCause(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Cause
	}
	return ""
}

package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	ErrUnavailable  = errors.New("storage unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Messages used by the normalizer and booking validator.
const (
	MsgSlugGenerationFailed = "slug generation failed"
	MsgInvalidDate          = "invalid date"
	MsgAgendaEmpty          = "agenda empty"
	MsgTagsEmpty            = "tags empty"
	MsgEventDoesNotExist    = "event does not exist"
	MsgEventLookupFailed    = "error validating event reference"
	MsgEmailEmpty           = "email cannot be empty"
)

// ValidationError reports one or more violated field or cross-field rules.
// Reference is set when the failure is a dangling reference to another record.
type ValidationError struct {
	Problems  []string
	Reference bool
}

// NewValidationError returns a ValidationError with the given messages.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

// NewReferenceError returns a ValidationError flagged as a reference failure.
func NewReferenceError(problem string) *ValidationError {
	return &ValidationError{Problems: []string{problem}, Reference: true}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConflictError reports a uniqueness violation detected by the storage engine.
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " already exists"
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ConnectionError reports that the storage engine could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return ErrUnavailable.Error()
	}
	return "storage unavailable: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrUnavailable }

// ValidationProblems returns the messages carried by a ValidationError in err's chain.
func ValidationProblems(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Problems
	}
	return nil
}

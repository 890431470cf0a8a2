package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/news-crud-lab/internal/validation"
)

var (
	// ErrPostNotFound is returned when an edit targets an id not in the collection
	ErrPostNotFound = errors.New("post not found")
	// ErrConfirmationRequired is returned by Delete when the caller has not confirmed
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrSessionNotFound is returned for unknown or expired sessions
	ErrSessionNotFound = errors.New("session not found")
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the field errors of a rejected submit
type ValidationError struct {
	Errors []validation.ValidationError
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Message
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

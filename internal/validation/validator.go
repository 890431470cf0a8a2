package validation

import (
	"github.com/google/uuid"
	"github.com/news-crud-lab/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDraft checks the required fields of a draft about to be submitted.
// Author and image URL are optional and accepted as-is.
func (v *Validator) ValidateDraft(draft models.Draft) []ValidationError {
	var errors []ValidationError

	// Validate title
	if draft.Title == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}

	// Validate content
	if draft.Content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	return errors
}

// ValidateSessionID checks that a session id has the shape the server issues
func (v *Validator) ValidateSessionID(id string) []ValidationError {
	if id == "" {
		return []ValidationError{{Field: "session_id", Message: "session_id is required"}}
	}
	if !isValidUUID(id) {
		return []ValidationError{{Field: "session_id", Message: "invalid UUID format", Value: id}}
	}
	return nil
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

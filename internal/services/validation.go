package services

import (
	"fmt"
	"strings"
)

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates per-field validation failures.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// add appends a field error and returns the receiver for chaining.
func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// errOrNil returns the error when any field failed, nil otherwise.
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingField    = errors.New("missing required field")
)

// ValidationError reports which field of which entity was rejected.
type ValidationError struct {
	Entity string
	ID     string
	Field  string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	id := e.ID
	if id == "" {
		id = "<new>"
	}
	if e.Value != "" {
		return fmt.Sprintf("%s %s: %s %q: %v", e.Entity, id, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Entity, id, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

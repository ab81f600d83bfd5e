package model

import "errors"

// ErrForeignKey is returned when a movement references a client that does not exist.
var ErrForeignKey = errors.New("foreign key violation")

// ValidationError reports input that was rejected before reaching the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

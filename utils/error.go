package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError marks failures of request-field validation (including date
// parsing) so handlers can answer 400 instead of 500. Persistence failures
// stay plain errors and surface as server errors.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

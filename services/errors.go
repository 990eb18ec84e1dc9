package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers translate them into the
// JSON envelope; no partial write may survive a Validation or Conflict
// failure.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrConflict         = errors.New("el inspector ya tiene una cita programada a esta hora")
	ErrPermissionDenied = errors.New("no tienes permisos para realizar esta operación")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "datos inválidos"
}

func validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

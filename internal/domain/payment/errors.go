// internal/domain/payment/errors.go
package payment

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrConflict          = errors.New("payment was modified concurrently")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError lists every unmet input condition of a request
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records an unmet condition
func (e *ValidationError) Add(reason string) {
	e.Fields = append(e.Fields, reason)
}

// Err returns nil when nothing was recorded
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

package shapeme

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is returned when a rendering and the target differ in size.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrArityMismatch is returned when crossover parents hold a different number of triangles.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrInvalidConfiguration is wrapped by every ConfigError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConfigError reports the option field rejected by validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

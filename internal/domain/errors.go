package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks a malformed bracket table, coefficient or
	// reminder window. It is surfaced before any computation runs.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownRegime is returned for a regime name or value outside the enumeration.
	ErrUnknownRegime = fmt.Errorf("%w: unknown fiscal regime", ErrInvalidConfiguration)

	// ErrDeadlineNotFound is returned when a filing override names a deadline id
	// that the generated calendar does not contain.
	ErrDeadlineNotFound = errors.New("deadline not found")

	// ErrUnsupportedFormat is returned for an unknown report format name.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// ConfigError points at the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// NewConfigError builds a ConfigError with a formatted reason
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

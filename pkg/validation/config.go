// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/constants"
)

// FieldError reports a user-facing problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Collector accumulates field errors so a form can report all of them at once.
type Collector struct {
	errs []FieldError
}

// Add records a failed check; nil is ignored.
func (c *Collector) Add(err *FieldError) {
	if err != nil {
		c.errs = append(c.errs, *err)
	}
}

// Errors returns the collected field errors.
func (c *Collector) Errors() []FieldError {
	return c.errs
}

// Positive requires value > 0.
func Positive(field string, value float64) *FieldError {
	if value > 0 {
		return nil
	}
	return &FieldError{Field: field, Message: "must be a positive value"}
}

// NonNegative requires value >= 0.
func NonNegative(field string, value float64) *FieldError {
	if value >= 0 {
		return nil
	}
	return &FieldError{Field: field, Message: "cannot be negative"}
}

// Percentage requires a percentage within [0, 100].
func Percentage(field string, value float64) *FieldError {
	if value >= 0 && value <= constants.PercentageMultiplier {
		return nil
	}
	return &FieldError{Field: field, Message: "must be a percentage between 0 and 100"}
}

// OneOf requires value to be one of options, ignoring case.
func OneOf(field, value string, options ...string) *FieldError {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, option := range options {
		if normalized == strings.ToLower(option) {
			return nil
		}
	}
	return &FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(options, ", "), value),
	}
}

// Required rejects blank strings.
func Required(field, value string) *FieldError {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return &FieldError{Field: field, Message: "is required"}
}

// Forbidden rejects a field that is set when the surrounding input rules it
// out; reason completes "must be empty when ...".
func Forbidden(field string, set bool, reason string) *FieldError {
	if !set {
		return nil
	}
	return &FieldError{Field: field, Message: "must be empty when " + reason}
}

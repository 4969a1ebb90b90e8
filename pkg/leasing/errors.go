package leasing

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks inputs rejected before any computation starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumeric marks failures that arise from the arithmetic itself, such as
	// a rate at or below -100% or a non-finite schedule value.
	ErrNumeric = errors.New("numeric error")
)

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func numericErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNumeric, fmt.Sprintf(format, args...))
}

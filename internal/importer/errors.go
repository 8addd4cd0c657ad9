package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedLocator means a required column is missing from the header row.
	ErrUnresolvedLocator = errors.New("unresolved column locator")
	// ErrNormalizerUsed is returned when Normalize is called twice on one Normalizer.
	ErrNormalizerUsed = errors.New("normalizer already used")
)

// DateParseError reports a date cell that does not match the format's pattern.
type DateParseError struct {
	Value   string
	Pattern string
	Err     error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parsing date %q with pattern %q: %v", e.Value, e.Pattern, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// AmountParseError reports an amount cell that is not a plain decimal number.
type AmountParseError struct {
	Value string
	Err   error
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("parsing amount %q: %v", e.Value, e.Err)
}

func (e *AmountParseError) Unwrap() error { return e.Err }

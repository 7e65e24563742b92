// Package validation accumulates every field violation of a payload in one pass.
package validation

import (
	"fmt"
	"slices"
	"unicode/utf8"

	dErrors "knights/pkg/domain-errors"
)

// Checker collects violations per field, preserving the order rules ran in.
// The zero value is ready to use.
type Checker struct {
	fields dErrors.Fields
}

// Add records a violation for field.
func (c *Checker) Add(field, msg string) {
	if c.fields == nil {
		c.fields = make(dErrors.Fields)
	}
	c.fields[field] = append(c.fields[field], msg)
}

// Check records msg for field when ok is false.
func (c *Checker) Check(ok bool, field, msg string) {
	if !ok {
		c.Add(field, msg)
	}
}

// Valid reports whether no violation has been recorded.
func (c *Checker) Valid() bool {
	return len(c.fields) == 0
}

// Errors returns the recorded violations. Nil when valid.
func (c *Checker) Errors() dErrors.Fields {
	return c.fields
}

// Err returns a validation error carrying every violation, or nil.
func (c *Checker) Err() error {
	if c.Valid() {
		return nil
	}
	return dErrors.NewValidation(c.fields)
}

// Reset clears all recorded violations.
func (c *Checker) Reset() {
	c.fields = nil
}

// String checks a required string against a length ceiling counted in runes.
// Empty strings report only the emptiness violation.
func (c *Checker) String(field, value string, maxLen int) {
	if value == "" {
		c.Add(field, "must not be empty")
		return
	}
	c.Check(utf8.RuneCountInString(value) <= maxLen, field, fmt.Sprintf("must be at most %d characters", maxLen))
}

// IntRange checks min <= value <= max.
func (c *Checker) IntRange(field string, value, min, max int) {
	c.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %d and %d", min, max))
}

// OneOf checks that value is one of allowed.
func OneOf[T comparable](c *Checker, field string, value T, allowed []T) {
	c.Check(slices.Contains(allowed, value), field, fmt.Sprintf("must be one of %v", allowed))
}

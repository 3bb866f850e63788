/*
errors.go - Structural errors for the tabular layer

ERROR CATEGORIES:
  1. Source errors - empty or undecodable input
  2. Schema errors - a required header is absent

  Every error produced by Read or Schema.Bind is structural: the source as a
  whole cannot be used. Single-cell problems are not errors at this layer
  (see numeric.go) and are handled by per-field policy in the caller.

USAGE:
  if tabular.IsStructural(err) {
      // report "cannot proceed", not "zero rows"
  }
*/
package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptySource is returned when the source has no header row.
	ErrEmptySource = errors.New("empty source")

	// ErrUnreadable is returned when the bytes cannot be decoded or parsed.
	ErrUnreadable = errors.New("unreadable source")

	// ErrMissingColumn is returned when a required field has no matching header.
	ErrMissingColumn = errors.New("missing required column")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// StructuralError wraps a failure at a named stage of reading.
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// MissingColumnError names the field and the header spellings that were tried.
type MissingColumnError struct {
	Schema   string
	Field    string
	Accepted []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q (accepted: %s)",
		e.Schema, e.Field, strings.Join(e.Accepted, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsStructural reports whether err means the whole source is unusable.
func IsStructural(err error) bool {
	return errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrUnreadable) ||
		errors.Is(err, ErrMissingColumn)
}

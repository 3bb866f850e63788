/*
errors.go - Outcome statuses and error types for the menu pipeline

PURPOSE:
  Normalizers and the classifier never fail outright. Instead every result
  carries a Status so callers can tell apart:
    - "the file is not a valid export"       (StatusInvalid)
    - "the file is valid but has no rows"     (StatusEmpty)
    - "both files are fine but share nothing" (StatusNoOverlap)

  Err() helpers convert a Status back into a sentinel for errors.Is(), which
  is what the HTTP layer and CLI switch on.
*/
package menu

import (
	"errors"
	"fmt"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusOK             Status = "ok"
	StatusEmpty          Status = "empty"          // valid source, zero usable rows
	StatusInvalid        Status = "invalid"        // structural error, see Err
	StatusNoOverlap      Status = "no_overlap"     // inner join is empty
	StatusUnclassifiable Status = "unclassifiable" // join non-empty, all rows filtered out
	StatusMissingInput   Status = "missing_input"  // a source is invalid or empty
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingInput means at least one export could not be used.
	ErrMissingInput = errors.New("missing or invalid input")

	// ErrNoOverlap means the two exports have no product in common.
	ErrNoOverlap = errors.New("no products in common")

	// ErrUnclassifiable means products matched but none could be classified
	// (nothing sold, or every margin filtered out).
	ErrUnclassifiable = errors.New("no classifiable products")
)

// InputError names which source could not be used and why.
type InputError struct {
	Source string // "sales" or "costs"
	Status Status
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s export %s: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s export %s", e.Source, e.Status)
}

func (e *InputError) Unwrap() error { return ErrMissingInput }

// statusErr maps a terminal status to its sentinel.
func statusErr(s Status) error {
	switch s {
	case StatusNoOverlap:
		return ErrNoOverlap
	case StatusUnclassifiable:
		return ErrUnclassifiable
	case StatusMissingInput, StatusInvalid, StatusEmpty:
		return ErrMissingInput
	default:
		return nil
	}
}

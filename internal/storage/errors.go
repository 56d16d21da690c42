// ABOUTME: Error taxonomy for local store operations.
// ABOUTME: Distinguishes missing rows from constraint violations.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as a second weight log for the same user and date.
var ErrDuplicate = errors.New("duplicate key")

// translateErr maps driver errors onto the package taxonomy so callers can
// branch with errors.Is instead of string matching.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

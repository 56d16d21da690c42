// ABOUTME: Error taxonomy for the remote store.
// ABOUTME: Callers branch on unreachable vs rejected vs missing.
package remote

import (
	"errors"
	"fmt"
)

// ErrNotFound means the server answered and the record does not exist.
var ErrNotFound = errors.New("remote: not found")

// ErrUnreachable means the request never produced a server verdict:
// connection failure, timeout, or cancellation. Nothing can be assumed
// about remote state.
var ErrUnreachable = errors.New("remote: unreachable")

// RejectedError means the server answered with a non-2xx status other
// than 404. The request was received and refused.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: rejected with status %d", e.Status)
	}
	return fmt.Sprintf("remote: rejected with status %d: %s", e.Status, e.Message)
}

// ABOUTME: Result and error types for reconciliation outcomes.
// ABOUTME: MirrorError marks records created remotely but not cached locally.
package sync

import (
	"errors"
	"fmt"
)

// ErrNotFound means neither store has the record.
var ErrNotFound = errors.New("sync: not found")

// MirrorError reports a write-through create whose remote half succeeded
// and whose local half failed. The record exists on the server under Key;
// a later pull or lookup will cache it.
type MirrorError struct {
	Entity string
	Key    string
	Err    error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("sync: %s %s created remotely but not cached locally: %v", e.Entity, e.Key, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

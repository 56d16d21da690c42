// ABOUTME: WeightLog model, one entry per user per calendar date.
// ABOUTME: Uniqueness of (user, date) is enforced by the local store.
package models

import "time"

// WeightLog is a body-weight measurement for one calendar date.
type WeightLog struct {
	ID        int64
	UserID    int64
	Date      string // DateLayout
	Weight    float64
	Notes     *string
	CreatedAt time.Time
}

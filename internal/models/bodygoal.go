// ABOUTME: BodyGoal model for weight-change goals (cut, bulk, maintain).
// ABOUTME: At most one active goal per user at a time.
package models

import "time"

// GoalType classifies a body goal.
type GoalType string

const (
	GoalTypeCut      GoalType = "cut"
	GoalTypeBulk     GoalType = "bulk"
	GoalTypeMaintain GoalType = "maintain"
	GoalTypeRecomp   GoalType = "recomp"
)

// BodyGoal tracks a weight target over a duration.
type BodyGoal struct {
	ID           int64
	UserID       int64
	GoalType     GoalType
	StartedAt    string // DateLayout
	StartWeight  float64
	TargetWeight float64
	DurationDays *int
	IsActive     bool
	CompletedAt  *string
	CreatedAt    time.Time
}

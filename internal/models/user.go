// ABOUTME: User model with demographic inputs, derived targets, and streaks.
// ABOUTME: A local store holds at most one user (single-tenant install).
package models

import "time"

// Sex is the biological sex used by the target calculation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Goal is the user's weight goal.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// ActivityLevel scales BMR into total daily energy expenditure.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityExtra     ActivityLevel = "extra"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
	ActivityExtra:     1.9,
}

// IsValidActivityLevel checks a string against the known activity levels.
func IsValidActivityLevel(s string) bool {
	_, ok := activityMultipliers[ActivityLevel(s)]
	return ok
}

// User is the single local account. Streak counters and last_logged_at are
// mutated on every meal log; the rest changes only on profile edits.
type User struct {
	ID                 int64
	Name               string
	Age                int
	Sex                Sex
	Height             float64 // cm
	Weight             float64 // kg
	Goal               Goal
	ActivityLevel      ActivityLevel
	DailyCalorieTarget int
	DailyProteinTarget int
	DailyCarbsTarget   int
	DailyFatTarget     int
	CalorieDeficit     int
	MaintainingCalorie int
	Onboarded          bool
	Streak             int
	LongestStreak      int
	LastLoggedAt       *string // calendar date, DateLayout
	CreatedAt          time.Time
}

// DateLayout is the calendar-date format used for meal and weight dates.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

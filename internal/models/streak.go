// ABOUTME: Streak arithmetic for consecutive-day meal logging.
// ABOUTME: Pure function of the user's counters and the new log date.
package models

import "time"

// NextStreak returns the streak counters after logging a meal on date.
// A log on the day after the last logged date extends the streak; a second
// log on the same day leaves it unchanged; a gap resets it to 1. A log
// dated before the last logged day is a backfill: last_logged_at never
// moves backward, so the counters stay put too.
func NextStreak(u *User, date string) (streak, longest int) {
	switch {
	case u.LastLoggedAt == nil:
		streak = 1
	case *u.LastLoggedAt == date:
		streak = u.Streak
	case daysBetween(*u.LastLoggedAt, date) == 1:
		streak = u.Streak + 1
	case daysBetween(*u.LastLoggedAt, date) < 0:
		return u.Streak, u.LongestStreak
	default:
		streak = 1
	}

	longest = u.LongestStreak
	if streak > longest {
		longest = streak
	}
	return streak, longest
}

// daysBetween returns the whole calendar days from a to b, or -1 when
// either date fails to parse.
func daysBetween(a, b string) int {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return -1
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return -1
	}
	return int(tb.Sub(ta).Hours() / 24)
}

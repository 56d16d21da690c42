// ABOUTME: Meal model for immutable daily log entries.
// ABOUTME: Local-only; optionally back-references the template it came from.
package models

import "time"

// Meal is one logged entry. TemplateID is a nullable back-reference: the
// meal survives template deletion with the reference set to null.
type Meal struct {
	ID          int64
	UserID      int64
	Description string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Date        string // DateLayout
	TemplateID  *int64
	CreatedAt   time.Time
}

// Macros returns the meal's macro values.
func (m *Meal) Macros() Macros {
	return Macros{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
}

// DailyTotals sums the macros of a day's meals.
func DailyTotals(meals []*Meal) Macros {
	var total Macros
	for _, m := range meals {
		total = total.Add(m.Macros())
	}
	return total
}

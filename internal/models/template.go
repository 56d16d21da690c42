// ABOUTME: MealTemplate and TemplateItem models for reusable meals.
// ABOUTME: Template ids are server-assigned and shared by both stores.
package models

import "time"

// TemplateItem is one constituent food of a meal template.
type TemplateItem struct {
	Name        string  `json:"name"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_size_unit"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// Macros returns the item's macro values.
func (i TemplateItem) Macros() Macros {
	return Macros{Calories: i.Calories, Protein: i.Protein, Carbs: i.Carbs, Fat: i.Fat}
}

// MealTemplate is a reusable named meal. The id is assigned by the remote
// store on creation and reused verbatim as the local primary key; meals
// reference templates through that shared id.
type MealTemplate struct {
	ID          int64
	UserID      int64
	Name        string
	Items       []TemplateItem // nil when the template carries flat macros only
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	ServingSize float64
	ServingUnit string
	IsFavorite  bool
	UseCount    int
	LastUsedAt  *time.Time
	CreatedAt   time.Time
}

// Macros returns the template's aggregate macro values.
func (t *MealTemplate) Macros() Macros {
	return Macros{Calories: t.Calories, Protein: t.Protein, Carbs: t.Carbs, Fat: t.Fat}
}

// RecomputeMacros replaces the aggregate macros with the rounded sum of the
// item list. Templates without items are left unchanged.
func (t *MealTemplate) RecomputeMacros() {
	if len(t.Items) == 0 {
		return
	}
	m := SumItems(t.Items).Round()
	t.Calories = m.Calories
	t.Protein = m.Protein
	t.Carbs = m.Carbs
	t.Fat = m.Fat
}

// ValidateItem checks a template item against the field contracts.
// Returns a human-readable problem description, or "" when valid.
func ValidateItem(item TemplateItem) string {
	switch {
	case item.Name == "":
		return "item name is required"
	case item.ServingSize <= 0:
		return "serving size must be greater than 0"
	case item.ServingUnit == "":
		return "serving size unit is required"
	case item.Calories < 0 || item.Calories > 10000:
		return "calories must be between 0-10000"
	case item.Protein < 0 || item.Protein > 1000:
		return "protein must be between 0-1000g"
	case item.Carbs < 0 || item.Carbs > 1000:
		return "carbs must be between 0-1000g"
	case item.Fat < 0 || item.Fat > 1000:
		return "fat must be between 0-1000g"
	}
	return ""
}

// ABOUTME: Macro arithmetic shared by templates, meals, and daily totals.
// ABOUTME: Pure functions: aggregation, serving-ratio scaling, and rounding.
package models

import "math"

// Macros holds the four tracked macronutrient values.
// Calories are kcal; protein, carbs, and fat are grams.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the component-wise sum of two macro sets.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  m.Protein + other.Protein,
		Carbs:    m.Carbs + other.Carbs,
		Fat:      m.Fat + other.Fat,
	}
}

// Scale multiplies every macro by ratio. A ratio of 1.0 is the identity.
func (m Macros) Scale(ratio float64) Macros {
	return Macros{
		Calories: m.Calories * ratio,
		Protein:  m.Protein * ratio,
		Carbs:    m.Carbs * ratio,
		Fat:      m.Fat * ratio,
	}
}

// Round rounds macros to their field precision: calories to the nearest
// integer, gram values to the nearest tenth.
func (m Macros) Round() Macros {
	return Macros{
		Calories: math.Round(m.Calories),
		Protein:  math.Round(m.Protein*10) / 10,
		Carbs:    math.Round(m.Carbs*10) / 10,
		Fat:      math.Round(m.Fat*10) / 10,
	}
}

// SumItems aggregates the macros of a template's item list.
func SumItems(items []TemplateItem) Macros {
	var total Macros
	for _, item := range items {
		total = total.Add(item.Macros())
	}
	return total
}

// ScaleItems aggregates item macros with a per-item portion multiplier.
// Missing multipliers default to 1.
func ScaleItems(items []TemplateItem, multipliers []float64) Macros {
	var total Macros
	for i, item := range items {
		ratio := 1.0
		if i < len(multipliers) && multipliers[i] > 0 {
			ratio = multipliers[i]
		}
		total = total.Add(item.Macros().Scale(ratio))
	}
	return total
}

// ABOUTME: Onboarding target calculation using Mifflin-St Jeor BMR.
// ABOUTME: Derives daily calorie and macro targets from user demographics.
package models

import "math"

// Profile is the demographic input collected during onboarding.
type Profile struct {
	Age           int
	Sex           Sex
	Height        float64 // cm
	Weight        float64 // kg
	ActivityLevel ActivityLevel
	Goal          Goal
}

// Targets are the derived daily nutrition targets.
type Targets struct {
	DailyCalorieTarget int
	DailyProteinTarget int
	DailyCarbsTarget   int
	DailyFatTarget     int
	MaintainingCalorie int
	CalorieDeficit     int
}

// CalculateTargets derives daily targets from a profile. BMR uses the
// Mifflin-St Jeor equation, scaled by activity level into maintenance
// calories, then adjusted by goal: a 500 kcal deficit for losing, a 300 kcal
// surplus for gaining. Protein is 2 g per kg body weight, fat is 25% of
// target calories, and carbs fill the remainder.
func CalculateTargets(p Profile) Targets {
	var bmr float64
	if p.Sex == SexMale {
		bmr = 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) + 5
	} else {
		bmr = 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) - 161
	}

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[ActivitySedentary]
	}
	maintenance := int(math.Round(bmr * multiplier))

	target := maintenance
	deficit := 0
	switch p.Goal {
	case GoalLose:
		deficit = 500
		target = maintenance - deficit
	case GoalGain:
		deficit = -300
		target = maintenance + 300
	}

	protein := int(math.Round(p.Weight * 2))
	fat := int(math.Round(float64(target) * 0.25 / 9))
	carbs := int(math.Round(float64(target-protein*4-fat*9) / 4))

	return Targets{
		DailyCalorieTarget: target,
		DailyProteinTarget: protein,
		DailyCarbsTarget:   carbs,
		DailyFatTarget:     fat,
		MaintainingCalorie: maintenance,
		CalorieDeficit:     deficit,
	}
}

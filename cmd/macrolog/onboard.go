// ABOUTME: CLI command for profile onboarding.
// ABOUTME: Collects demographics and derives daily targets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
)

var (
	onboardName     string
	onboardAge      int
	onboardSex      string
	onboardHeight   float64
	onboardWeight   float64
	onboardActivity string
	onboardGoal     string
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Set up your profile and daily targets",
	Long: `Set up your profile. Daily calorie and macro targets are derived
from your demographics using the Mifflin-St Jeor equation.

Example:
  macrolog onboard --name Alex --age 30 --sex male \
    --height 180 --weight 80 --activity moderate --goal lose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sess.NeedsOnboarding() {
			return fmt.Errorf("profile already exists - use 'macrolog profile' to view it")
		}

		if onboardName == "" {
			return fmt.Errorf("--name is required")
		}
		if onboardAge <= 0 || onboardAge >= 150 {
			return fmt.Errorf("age must be between 1 and 149")
		}
		sex := models.Sex(onboardSex)
		if sex != models.SexMale && sex != models.SexFemale {
			return fmt.Errorf("sex must be male or female")
		}
		if onboardHeight <= 0 || onboardHeight >= 300 {
			return fmt.Errorf("height must be between 1 and 299 cm")
		}
		if onboardWeight <= 0 || onboardWeight >= 500 {
			return fmt.Errorf("weight must be between 1 and 499 kg")
		}
		if !models.IsValidActivityLevel(onboardActivity) {
			return fmt.Errorf("activity must be one of: sedentary, light, moderate, active, extra")
		}
		goal := models.Goal(onboardGoal)
		if goal != models.GoalLose && goal != models.GoalMaintain && goal != models.GoalGain {
			return fmt.Errorf("goal must be lose, maintain, or gain")
		}

		profile := models.Profile{
			Age: onboardAge, Sex: sex,
			Height: onboardHeight, Weight: onboardWeight,
			ActivityLevel: models.ActivityLevel(onboardActivity),
			Goal:          goal,
		}
		targets := models.CalculateTargets(profile)

		u := &models.User{
			Name: onboardName, Age: onboardAge, Sex: sex,
			Height: onboardHeight, Weight: onboardWeight,
			Goal: goal, ActivityLevel: models.ActivityLevel(onboardActivity),
			DailyCalorieTarget: targets.DailyCalorieTarget,
			DailyProteinTarget: targets.DailyProteinTarget,
			DailyCarbsTarget:   targets.DailyCarbsTarget,
			DailyFatTarget:     targets.DailyFatTarget,
			CalorieDeficit:     targets.CalorieDeficit,
			MaintainingCalorie: targets.MaintainingCalorie,
			Onboarded:          true,
		}
		if err := sess.DB().CreateUser(u); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		color.Green("✓ Profile created for %s", u.Name)
		fmt.Printf("  Maintenance   %d kcal\n", targets.MaintainingCalorie)
		fmt.Printf("  Daily target  %d kcal\n", targets.DailyCalorieTarget)
		fmt.Printf("  Protein       %d g\n", targets.DailyProteinTarget)
		fmt.Printf("  Carbs         %d g\n", targets.DailyCarbsTarget)
		fmt.Printf("  Fat           %d g\n", targets.DailyFatTarget)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Println(u.Name)
		fmt.Printf("  %d years, %s, %.0f cm, %.1f kg\n", u.Age, u.Sex, u.Height, u.Weight)
		fmt.Printf("  Goal: %s (%s activity)\n", u.Goal, u.ActivityLevel)
		fmt.Println()
		fmt.Printf("  Daily target  %d kcal\n", u.DailyCalorieTarget)
		fmt.Printf("  Protein       %d g\n", u.DailyProteinTarget)
		fmt.Printf("  Carbs         %d g\n", u.DailyCarbsTarget)
		fmt.Printf("  Fat           %d g\n", u.DailyFatTarget)
		fmt.Println()
		fmt.Printf("  Streak        %d day(s) (longest %d)\n", u.Streak, u.LongestStreak)
		return nil
	},
}

func init() {
	onboardCmd.Flags().StringVar(&onboardName, "name", "", "your name")
	onboardCmd.Flags().IntVar(&onboardAge, "age", 0, "age in years")
	onboardCmd.Flags().StringVar(&onboardSex, "sex", "", "male or female")
	onboardCmd.Flags().Float64Var(&onboardHeight, "height", 0, "height in cm")
	onboardCmd.Flags().Float64Var(&onboardWeight, "weight", 0, "weight in kg")
	onboardCmd.Flags().StringVar(&onboardActivity, "activity", "moderate", "activity level")
	onboardCmd.Flags().StringVar(&onboardGoal, "goal", "maintain", "lose, maintain, or gain")
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(profileCmd)
}

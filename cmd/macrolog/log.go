// ABOUTME: CLI command for logging meals, by hand or from a template.
// ABOUTME: Updates the streak counters alongside the insert.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/storage"
)

var (
	logDate     string
	logTemplate int64
	logServings float64
)

var logCmd = &cobra.Command{
	Use:     "log [description] [calories] [protein] [carbs] [fat]",
	Aliases: []string{"l"},
	Short:   "Log a meal",
	Long: `Log a meal by hand or from a saved template.

Examples:
  macrolog log "Chicken and rice" 650 45 70 15
  macrolog log "Leftovers" 400 20 50 10 --date 2025-06-09
  macrolog log --template 42
  macrolog log --template 42 --servings 1.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		date := logDate
		if date == "" {
			date = models.Today()
		} else if _, err := time.Parse(models.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		meal := &models.Meal{UserID: u.ID, Date: date}

		if logTemplate > 0 {
			tpl, err := sess.DB().GetTemplate(logTemplate)
			if err != nil {
				return fmt.Errorf("template %d: %w", logTemplate, err)
			}
			servings := logServings
			if servings <= 0 {
				servings = 1
			}
			m := tpl.Macros().Scale(servings).Round()
			meal.Description = tpl.Name
			meal.Calories = m.Calories
			meal.Protein = m.Protein
			meal.Carbs = m.Carbs
			meal.Fat = m.Fat
			meal.TemplateID = &tpl.ID
		} else {
			if len(args) < 5 {
				return fmt.Errorf("expected: log <description> <calories> <protein> <carbs> <fat>")
			}
			meal.Description = args[0]
			vals := make([]float64, 4)
			for i, name := range []string{"calories", "protein", "carbs", "fat"} {
				v, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil || v < 0 {
					return fmt.Errorf("invalid %s: %s", name, args[i+1])
				}
				vals[i] = v
			}
			meal.Calories, meal.Protein, meal.Carbs, meal.Fat = vals[0], vals[1], vals[2], vals[3]
		}

		// Streak math needs the pre-insert counters; the insert trigger
		// moves last_logged_at.
		streak, longest := models.NextStreak(u, date)

		created, err := sess.DB().CreateMeal(meal)
		if err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}

		patch := storage.UserPatch{Streak: &streak, LongestStreak: &longest}
		if err := sess.DB().UpdateUser(u.ID, patch); err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}

		color.Green("✓ Logged %s", created.Description)
		fmt.Printf("  %.0f kcal  P %.1fg  C %.1fg  F %.1fg\n",
			created.Calories, created.Protein, created.Carbs, created.Fat)
		if streak > u.Streak {
			fmt.Printf("  %s\n", color.YellowString("🔥 %d day streak", streak))
		}
		return nil
	},
}

var deleteMealCmd = &cobra.Command{
	Use:   "delete <meal-id>",
	Short: "Delete a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal id: %s", args[0])
		}
		if err := sess.DB().DeleteMeal(id); err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}
		color.Green("✓ Deleted meal %d", id)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	logCmd.Flags().Int64Var(&logTemplate, "template", 0, "log from a saved template id")
	logCmd.Flags().Float64Var(&logServings, "servings", 1, "serving multiplier for --template")
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(deleteMealCmd)
}

// ABOUTME: CLI commands for daily totals and per-day history.
// ABOUTME: Shows progress against the user's derived targets.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
)

var (
	todayDate   string
	historyDays int
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t"},
	Short:   "Show today's meals and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		date := todayDate
		if date == "" {
			date = models.Today()
		} else if _, err := time.Parse(models.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		meals, err := sess.DB().MealsByDate(u.ID, date)
		if err != nil {
			return fmt.Errorf("failed to load meals: %w", err)
		}
		totals, count, err := sess.DB().DailyTotals(u.ID, date)
		if err != nil {
			return fmt.Errorf("failed to load totals: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Printf("%s  (%d meal(s))\n", date, count)

		for _, m := range meals {
			fmt.Printf("  %4d  %-30s %5.0f kcal  P %.1f  C %.1f  F %.1f\n",
				m.ID, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat)
		}
		if count == 0 {
			fmt.Println("  nothing logged yet")
		}

		fmt.Println()
		printTargetLine("Calories", totals.Calories, float64(u.DailyCalorieTarget), "kcal")
		printTargetLine("Protein", totals.Protein, float64(u.DailyProteinTarget), "g")
		printTargetLine("Carbs", totals.Carbs, float64(u.DailyCarbsTarget), "g")
		printTargetLine("Fat", totals.Fat, float64(u.DailyFatTarget), "g")

		if u.Streak > 0 {
			fmt.Printf("\n  %s\n", color.YellowString("🔥 %d day streak", u.Streak))
		}
		return nil
	},
}

func printTargetLine(label string, value, target float64, unit string) {
	remaining := target - value
	status := color.GreenString("%.0f %s left", remaining, unit)
	if remaining < 0 {
		status = color.RedString("%.0f %s over", -remaining, unit)
	}
	fmt.Printf("  %-9s %6.0f / %.0f %s   %s\n", label, value, target, unit, status)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show per-day totals for recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		days := historyDays
		if days <= 0 {
			days = 7
		}
		end := models.Today()
		start := time.Now().AddDate(0, 0, -(days - 1)).Format(models.DateLayout)

		summary, err := sess.DB().WeeklySummary(u.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(summary) == 0 {
			fmt.Println("No meals logged in this range.")
			return nil
		}

		for _, day := range summary {
			marker := " "
			if day.Totals.Calories <= float64(u.DailyCalorieTarget) {
				marker = color.GreenString("✓")
			}
			fmt.Printf("%s %s  %5.0f kcal  P %5.1f  C %5.1f  F %5.1f  (%d meal(s))\n",
				marker, day.Date, day.Totals.Calories,
				day.Totals.Protein, day.Totals.Carbs, day.Totals.Fat, day.MealCount)
		}
		return nil
	},
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "date to show (YYYY-MM-DD)")
	historyCmd.Flags().IntVar(&historyDays, "days", 7, "number of days to show")
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(historyCmd)
}

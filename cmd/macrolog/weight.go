// ABOUTME: CLI commands for weight logging, one entry per calendar day.
// ABOUTME: Also surfaces progress against the active body goal.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/storage"
)

var (
	weightDate  string
	weightNotes string
	weightLimit int
)

var weightCmd = &cobra.Command{
	Use:     "weight",
	Aliases: []string{"w"},
	Short:   "Track body weight",
}

var weightAddCmd = &cobra.Command{
	Use:   "add <kg>",
	Short: "Log today's weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil || kg <= 0 || kg >= 500 {
			return fmt.Errorf("invalid weight: %s", args[0])
		}

		date := weightDate
		if date == "" {
			date = models.Today()
		} else if _, err := time.Parse(models.DateLayout, date); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}

		w := &models.WeightLog{UserID: u.ID, Date: date, Weight: kg}
		if weightNotes != "" {
			w.Notes = &weightNotes
		}

		if err := sess.DB().CreateWeightLog(w); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return fmt.Errorf("weight already logged for %s", date)
			}
			return fmt.Errorf("failed to log weight: %w", err)
		}

		// Keep the profile's weight current so target math stays honest.
		if err := sess.DB().UpdateUser(u.ID, storage.UserPatch{Weight: &kg}); err != nil {
			return fmt.Errorf("failed to update profile weight: %w", err)
		}

		color.Green("✓ Logged %.1f kg on %s", kg, date)

		if goal, err := sess.DB().ActiveBodyGoal(u.ID); err == nil {
			remaining := kg - goal.TargetWeight
			fmt.Printf("  Goal %s: %.1f kg to go (target %.1f kg)\n",
				goal.GoalType, remaining, goal.TargetWeight)
		}
		return nil
	},
}

var weightListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show recent weight entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		logs, err := sess.DB().ListWeightLogs(u.ID, weightLimit)
		if err != nil {
			return fmt.Errorf("failed to list weights: %w", err)
		}
		if len(logs) == 0 {
			fmt.Println("No weight entries yet.")
			return nil
		}

		for i, w := range logs {
			trend := ""
			if i+1 < len(logs) {
				delta := w.Weight - logs[i+1].Weight
				switch {
				case delta < 0:
					trend = color.GreenString(" %.1f", delta)
				case delta > 0:
					trend = color.RedString(" +%.1f", delta)
				}
			}
			notes := ""
			if w.Notes != nil {
				notes = "  " + color.New(color.Faint).Sprint(*w.Notes)
			}
			fmt.Printf("  %s  %6.1f kg%s%s\n", w.Date, w.Weight, trend, notes)
		}
		return nil
	},
}

func init() {
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "date (YYYY-MM-DD), defaults to today")
	weightAddCmd.Flags().StringVar(&weightNotes, "notes", "", "notes for the entry")
	weightListCmd.Flags().IntVar(&weightLimit, "limit", 14, "number of entries to show")

	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightListCmd)
	rootCmd.AddCommand(weightCmd)
}

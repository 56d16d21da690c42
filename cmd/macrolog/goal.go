// ABOUTME: CLI commands for body goals: set, status, complete.
// ABOUTME: At most one goal is active at a time.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/storage"
)

var (
	goalTarget   float64
	goalDuration int
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage body goals",
}

var goalSetCmd = &cobra.Command{
	Use:   "set <cut|bulk|maintain|recomp>",
	Short: "Start a body goal (replaces any active goal)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		goalType := models.GoalType(args[0])
		switch goalType {
		case models.GoalTypeCut, models.GoalTypeBulk, models.GoalTypeMaintain, models.GoalTypeRecomp:
		default:
			return fmt.Errorf("goal type must be cut, bulk, maintain, or recomp")
		}
		if goalTarget <= 0 || goalTarget >= 500 {
			return fmt.Errorf("--target weight is required (kg)")
		}

		g := &models.BodyGoal{
			UserID:       u.ID,
			GoalType:     goalType,
			StartedAt:    models.Today(),
			StartWeight:  u.Weight,
			TargetWeight: goalTarget,
		}
		if goalDuration > 0 {
			g.DurationDays = &goalDuration
		}

		if err := sess.DB().CreateBodyGoal(g); err != nil {
			return fmt.Errorf("failed to start goal: %w", err)
		}

		color.Green("✓ Started %s goal: %.1f kg → %.1f kg", g.GoalType, g.StartWeight, g.TargetWeight)
		return nil
	},
}

var goalStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active body goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		g, err := sess.DB().ActiveBodyGoal(u.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Println("No active goal. Start one with 'macrolog goal set'.")
				return nil
			}
			return fmt.Errorf("failed to load goal: %w", err)
		}

		current := u.Weight
		if latest, err := sess.DB().LatestWeight(u.ID); err == nil {
			current = latest.Weight
		}

		bold := color.New(color.Bold)
		bold.Printf("%s goal since %s\n", g.GoalType, g.StartedAt)
		fmt.Printf("  Start    %.1f kg\n", g.StartWeight)
		fmt.Printf("  Current  %.1f kg\n", current)
		fmt.Printf("  Target   %.1f kg\n", g.TargetWeight)

		total := g.TargetWeight - g.StartWeight
		done := current - g.StartWeight
		if total != 0 {
			fmt.Printf("  Progress %.0f%%\n", done/total*100)
		}
		if g.DurationDays != nil {
			started, err := time.Parse(models.DateLayout, g.StartedAt)
			if err == nil {
				elapsed := int(time.Since(started).Hours() / 24)
				fmt.Printf("  Day %d of %d\n", elapsed+1, *g.DurationDays)
			}
		}
		return nil
	},
}

var goalCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark the active goal finished",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		g, err := sess.DB().ActiveBodyGoal(u.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no active goal to complete")
			}
			return fmt.Errorf("failed to load goal: %w", err)
		}

		if err := sess.DB().CompleteBodyGoal(g.ID, models.Today()); err != nil {
			return fmt.Errorf("failed to complete goal: %w", err)
		}
		color.Green("✓ Completed %s goal", g.GoalType)
		return nil
	},
}

func init() {
	goalSetCmd.Flags().Float64Var(&goalTarget, "target", 0, "target weight in kg")
	goalSetCmd.Flags().IntVar(&goalDuration, "days", 0, "goal duration in days")

	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalStatusCmd)
	goalCmd.AddCommand(goalCompleteCmd)
	rootCmd.AddCommand(goalCmd)
}

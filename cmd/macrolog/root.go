// ABOUTME: Root Cobra command for macrolog CLI.
// ABOUTME: Bootstraps config, session, and the sync reconciler per run.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/config"
	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/remote"
	"github.com/abhinavk/macrolog/internal/session"
	"github.com/abhinavk/macrolog/internal/sync"
)

var (
	cfg        *config.Config
	sess       *session.Session
	reconciler *sync.Reconciler
)

var rootCmd = &cobra.Command{
	Use:   "macrolog",
	Short: "Offline-first macro and calorie tracker",
	Long: `Macrolog is a CLI tool for tracking meals, macros, and body weight.

Everything works offline against a local SQLite database. When a sync
backend is configured, meal templates and the barcode catalog are shared
across devices.

QUICK START:

  $ macrolog onboard --name Alex --age 30 --sex male \
      --height 180 --weight 80 --activity moderate --goal lose
  $ macrolog log "Chicken and rice" 650 45 70 15
  $ macrolog today                          # Today's totals vs targets
  $ macrolog history --days 7               # Per-day summary

TEMPLATES:

  $ macrolog template add --name "Post-Workout" --calories 280 \
      --protein 35 --carbs 20 --fat 5
  $ macrolog template list
  $ macrolog log --template 42              # Log a meal from a template
  $ macrolog template pull                  # Pull templates from the backend

BARCODES:

  $ macrolog barcode lookup 0123456789012   # Local cache, then shared catalog
  $ macrolog barcode add 0123456789012 --product "Protein Bar" \
      --serving 60 --unit g --calories 220 --protein 20 --carbs 23 --fat 7

SYNC:

  Set server_url and token in the config file, or export
  MACROLOG_SERVER_URL and MACROLOG_TOKEN. Without them macrolog runs
  purely offline; template creation then requires a backend.

DATA STORAGE:

  The database lives at ~/.local/share/macrolog/macrolog.db, config at
  ~/.config/macrolog/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch the database
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sess = session.New(cfg.DBPath())
		if err := sess.Init(); err != nil {
			return err
		}

		if cfg.SyncEnabled() {
			client := remote.NewClient(cfg.ServerURL, cfg.Token, cfg.DeviceID)
			reconciler = sync.NewReconciler(sess.DB(), client)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sess != nil {
			return sess.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireUser returns the onboarded user or an error pointing at onboarding.
func requireUser() (*models.User, error) {
	if sess.NeedsOnboarding() {
		return nil, fmt.Errorf("no profile yet - run 'macrolog onboard' first")
	}
	return sess.CurrentUser(), nil
}

// requireSync returns the reconciler or an error explaining how to enable it.
func requireSync() (*sync.Reconciler, error) {
	if reconciler == nil {
		return nil, fmt.Errorf("no sync backend configured - set MACROLOG_SERVER_URL or server_url in %s", config.GetConfigPath())
	}
	return reconciler, nil
}

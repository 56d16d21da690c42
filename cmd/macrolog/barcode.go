// ABOUTME: CLI commands for the barcode catalog: lookup and contribute.
// ABOUTME: Lookups are local-first with a read-through to the shared catalog.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/remote"
	"github.com/abhinavk/macrolog/internal/storage"
	"github.com/abhinavk/macrolog/internal/sync"
)

var (
	bcProduct  string
	bcServing  float64
	bcUnit     string
	bcCalories float64
	bcProtein  float64
	bcCarbs    float64
	bcFat      float64
)

var barcodeCmd = &cobra.Command{
	Use:     "barcode",
	Aliases: []string{"bc"},
	Short:   "Look up and contribute barcode foods",
}

var barcodeLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Resolve a barcode, locally first",
	Long: `Resolve a scanned barcode. The local cache answers first; on a miss
the shared catalog is consulted and a hit is cached for future offline
scans. Without a sync backend only the local cache is searched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		barcode := args[0]

		var food *models.BarcodeFood
		var err error
		if reconciler != nil {
			food, err = reconciler.LookupBarcode(context.Background(), barcode)
			if errors.Is(err, sync.ErrNotFound) {
				return fmt.Errorf("barcode %s is not in the catalog - contribute it with 'macrolog barcode add'", barcode)
			}
			if errors.Is(err, remote.ErrUnreachable) {
				return fmt.Errorf("barcode %s is not cached locally and the catalog is unreachable", barcode)
			}
		} else {
			food, err = sess.DB().GetBarcodeFood(barcode)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("barcode %s is not cached locally (no sync backend configured)", barcode)
			}
		}
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Println(food.ProductName)
		fmt.Printf("  per %.0f %s: %.0f kcal  P %.1fg  C %.1fg  F %.1fg\n",
			food.ServingSize, food.ServingUnit,
			food.Calories, food.Protein, food.Carbs, food.Fat)
		return nil
	},
}

var barcodeAddCmd = &cobra.Command{
	Use:   "add <barcode>",
	Short: "Contribute a product to the shared catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		rec, err := requireSync()
		if err != nil {
			return err
		}
		if bcProduct == "" {
			return fmt.Errorf("--product is required")
		}
		if bcServing <= 0 || bcUnit == "" {
			return fmt.Errorf("--serving and --unit are required")
		}

		food := &models.BarcodeFood{
			Barcode: args[0], ProductName: bcProduct,
			ServingSize: bcServing, ServingUnit: bcUnit,
			Calories: bcCalories, Protein: bcProtein,
			Carbs: bcCarbs, Fat: bcFat,
		}

		created, err := rec.CreateBarcodeFood(context.Background(), food)

		var mirr *sync.MirrorError
		if errors.As(err, &mirr) {
			color.Yellow("⚠ Product added to the catalog but not cached locally: %v", mirr.Err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to add product: %w", err)
		}

		color.Green("✓ Added %s (%s)", created.ProductName, created.Barcode)
		return nil
	},
}

func init() {
	barcodeAddCmd.Flags().StringVar(&bcProduct, "product", "", "product name")
	barcodeAddCmd.Flags().Float64Var(&bcServing, "serving", 0, "serving size")
	barcodeAddCmd.Flags().StringVar(&bcUnit, "unit", "", "serving size unit")
	barcodeAddCmd.Flags().Float64Var(&bcCalories, "calories", 0, "calories per serving")
	barcodeAddCmd.Flags().Float64Var(&bcProtein, "protein", 0, "protein grams")
	barcodeAddCmd.Flags().Float64Var(&bcCarbs, "carbs", 0, "carb grams")
	barcodeAddCmd.Flags().Float64Var(&bcFat, "fat", 0, "fat grams")

	barcodeCmd.AddCommand(barcodeLookupCmd)
	barcodeCmd.AddCommand(barcodeAddCmd)
	rootCmd.AddCommand(barcodeCmd)
}

// ABOUTME: CLI commands for meal templates: add, list, favorite, delete, pull.
// ABOUTME: Creation goes through the reconciler; the backend assigns the id.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/sync"
)

var (
	tplName     string
	tplCalories float64
	tplProtein  float64
	tplCarbs    float64
	tplFat      float64
	tplServing  float64
	tplUnit     string
	tplItems    []string
	tplSearch   string
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage meal templates",
}

var templateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a template (requires a sync backend)",
	Long: `Create a meal template. The backend assigns the template id and the
local copy is cached under that same id.

Flat macros:
  macrolog template add --name "Post-Workout" --calories 280 \
    --protein 35 --carbs 20 --fat 5

Itemized (macros are computed from the items):
  macrolog template add --name "Bowl" \
    --item "Chicken,150,g,240,45,0,5" \
    --item "Rice,100,g,130,2.7,28,0.3"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}
		rec, err := requireSync()
		if err != nil {
			return err
		}
		if tplName == "" {
			return fmt.Errorf("--name is required")
		}

		tpl := &models.MealTemplate{
			UserID: u.ID, Name: tplName,
			Calories: tplCalories, Protein: tplProtein,
			Carbs: tplCarbs, Fat: tplFat,
			ServingSize: tplServing, ServingUnit: tplUnit,
		}
		for _, raw := range tplItems {
			item, err := parseTemplateItem(raw)
			if err != nil {
				return err
			}
			if problem := models.ValidateItem(item); problem != "" {
				return fmt.Errorf("item %q: %s", item.Name, problem)
			}
			tpl.Items = append(tpl.Items, item)
		}
		if len(tpl.Items) == 0 && tpl.Calories <= 0 {
			return fmt.Errorf("provide --calories or at least one --item")
		}

		created, err := rec.CreateTemplate(context.Background(), tpl)

		var mirr *sync.MirrorError
		if errors.As(err, &mirr) {
			// The template is real; only this device's cache is missing it.
			color.Yellow("⚠ Template created on the server (id %d) but not cached locally: %v", created.ID, mirr.Err)
			fmt.Println("  Run 'macrolog template pull' to retry the cache.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		color.Green("✓ Created template %q (id %d)", created.Name, created.ID)
		fmt.Printf("  %.0f kcal  P %.1fg  C %.1fg  F %.1fg\n",
			created.Calories, created.Protein, created.Carbs, created.Fat)
		return nil
	},
}

// parseTemplateItem parses "name,serving,unit,calories,protein,carbs,fat".
func parseTemplateItem(raw string) (models.TemplateItem, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 7 {
		return models.TemplateItem{}, fmt.Errorf("invalid --item %q, expected name,serving,unit,calories,protein,carbs,fat", raw)
	}
	nums := make([]float64, 5)
	for i, idx := range []int{1, 3, 4, 5, 6} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[idx]), 64)
		if err != nil {
			return models.TemplateItem{}, fmt.Errorf("invalid number %q in --item %q", parts[idx], raw)
		}
		nums[i] = v
	}
	return models.TemplateItem{
		Name:        strings.TrimSpace(parts[0]),
		ServingSize: nums[0],
		ServingUnit: strings.TrimSpace(parts[2]),
		Calories:    nums[1],
		Protein:     nums[2],
		Carbs:       nums[3],
		Fat:         nums[4],
	}, nil
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates (favorites first, then most used)",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}

		var templates []*models.MealTemplate
		if tplSearch != "" {
			templates, err = sess.DB().SearchTemplates(u.ID, tplSearch)
		} else {
			templates, err = sess.DB().ListTemplates(u.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates yet. Create one with 'macrolog template add'.")
			return nil
		}

		for _, t := range templates {
			star := " "
			if t.IsFavorite {
				star = color.YellowString("★")
			}
			fmt.Printf("%s %4d  %-25s %5.0f kcal  P %5.1f  C %5.1f  F %5.1f  used %d×\n",
				star, t.ID, t.Name, t.Calories, t.Protein, t.Carbs, t.Fat, t.UseCount)
		}
		return nil
	},
}

var templateFavoriteCmd = &cobra.Command{
	Use:     "favorite <id>",
	Aliases: []string{"fav"},
	Short:   "Toggle a template's favorite flag",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid template id: %s", args[0])
		}
		if err := sess.DB().ToggleFavorite(id); err != nil {
			return fmt.Errorf("failed to toggle favorite: %w", err)
		}
		color.Green("✓ Toggled favorite for template %d", id)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template from this device",
	Long: `Delete a template from the local cache. Meals logged from it keep
their macros; only the back-reference is cleared. The server copy is
untouched and a later pull will restore it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid template id: %s", args[0])
		}
		if err := sess.DB().DeleteTemplate(id); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted template %d", id)
		return nil
	},
}

var templatePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull all templates from the sync backend",
	Long: `Fetch your full template set from the backend and merge it into the
local cache in one transaction. Per-device state (use counts, favorites)
survives the merge. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := requireUser()
		if err != nil {
			return err
		}
		rec, err := requireSync()
		if err != nil {
			return err
		}

		n, err := rec.PullTemplates(context.Background(), u.ID)
		if err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		color.Green("✓ Reconciled %d template(s)", n)
		return nil
	},
}

func init() {
	templateAddCmd.Flags().StringVar(&tplName, "name", "", "template name")
	templateAddCmd.Flags().Float64Var(&tplCalories, "calories", 0, "calories per serving")
	templateAddCmd.Flags().Float64Var(&tplProtein, "protein", 0, "protein grams")
	templateAddCmd.Flags().Float64Var(&tplCarbs, "carbs", 0, "carb grams")
	templateAddCmd.Flags().Float64Var(&tplFat, "fat", 0, "fat grams")
	templateAddCmd.Flags().Float64Var(&tplServing, "serving", 0, "serving size")
	templateAddCmd.Flags().StringVar(&tplUnit, "unit", "", "serving size unit")
	templateAddCmd.Flags().StringArrayVar(&tplItems, "item", nil, "item as name,serving,unit,calories,protein,carbs,fat (repeatable)")
	templateListCmd.Flags().StringVar(&tplSearch, "search", "", "filter templates by name")

	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateFavoriteCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templatePullCmd)
	rootCmd.AddCommand(templateCmd)
}

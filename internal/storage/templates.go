// ABOUTME: MealTemplate CRUD for the local store.
// ABOUTME: Inserts use explicit server-assigned ids; bulk upsert merges stats.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhinavk/macrolog/internal/models"
)

// InsertTemplateWithID mirrors a remotely created template into the local
// store under the id the remote assigned. The id is passed through verbatim,
// never auto-generated, so meal foreign keys resolve identically in both
// stores.
func (d *DB) InsertTemplateWithID(t *models.MealTemplate) error {
	if t.ID <= 0 {
		return fmt.Errorf("insert template: missing remote-assigned id")
	}

	itemsJSON, err := marshalItems(t.Items)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}

	query := `
		INSERT INTO meal_templates (
			id, user_id, name, items, calories, protein, carbs, fat,
			serving_size, serving_size_unit, is_favorite, use_count, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		t.ID, t.UserID, t.Name, itemsJSON,
		t.Calories, t.Protein, t.Carbs, t.Fat,
		t.ServingSize, t.ServingUnit,
		boolToInt(t.IsFavorite), t.UseCount, nullableTime(t.LastUsedAt),
	)
	return translateErr("insert template", err)
}

// GetTemplate retrieves a template by id.
func (d *DB) GetTemplate(id int64) (*models.MealTemplate, error) {
	return d.scanTemplate(d.db.QueryRow(templateSelect+" WHERE id = ?", id))
}

// ListTemplates returns a user's templates, favorites first, then by use.
func (d *DB) ListTemplates(userID int64) ([]*models.MealTemplate, error) {
	rows, err := d.db.Query(templateSelect+`
		WHERE user_id = ?
		ORDER BY is_favorite DESC, use_count DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	return d.scanTemplates(rows)
}

// SearchTemplates finds a user's templates by name substring.
func (d *DB) SearchTemplates(userID int64, query string) ([]*models.MealTemplate, error) {
	rows, err := d.db.Query(templateSelect+`
		WHERE user_id = ? AND name LIKE ?
		ORDER BY is_favorite DESC, use_count DESC`, userID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer rows.Close()
	return d.scanTemplates(rows)
}

// FavoriteTemplates returns a user's favorites ordered by use.
func (d *DB) FavoriteTemplates(userID int64) ([]*models.MealTemplate, error) {
	rows, err := d.db.Query(templateSelect+`
		WHERE user_id = ? AND is_favorite = 1
		ORDER BY use_count DESC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite templates: %w", err)
	}
	defer rows.Close()
	return d.scanTemplates(rows)
}

// MostUsedTemplates returns the templates a user logs from most often.
func (d *DB) MostUsedTemplates(userID int64, limit int) ([]*models.MealTemplate, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(templateSelect+`
		WHERE user_id = ? AND use_count > 0
		ORDER BY use_count DESC, last_used_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("most used templates: %w", err)
	}
	defer rows.Close()
	return d.scanTemplates(rows)
}

// TemplatePatch selects which template columns an update touches.
type TemplatePatch struct {
	Name        *string
	Items       *[]models.TemplateItem
	Calories    *float64
	Protein     *float64
	Carbs       *float64
	Fat         *float64
	ServingSize *float64
	ServingUnit *string
	IsFavorite  *bool
}

// UpdateTemplate applies the non-nil fields of the patch; a nil patch is a
// no-op.
func (d *DB) UpdateTemplate(id int64, patch TemplatePatch) error {
	var sets []string
	var args []interface{}

	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Items != nil {
		itemsJSON, err := marshalItems(*patch.Items)
		if err != nil {
			return fmt.Errorf("update template: %w", err)
		}
		add("items", itemsJSON)
	}
	if patch.Calories != nil {
		add("calories", *patch.Calories)
	}
	if patch.Protein != nil {
		add("protein", *patch.Protein)
	}
	if patch.Carbs != nil {
		add("carbs", *patch.Carbs)
	}
	if patch.Fat != nil {
		add("fat", *patch.Fat)
	}
	if patch.ServingSize != nil {
		add("serving_size", *patch.ServingSize)
	}
	if patch.ServingUnit != nil {
		add("serving_size_unit", *patch.ServingUnit)
	}
	if patch.IsFavorite != nil {
		add("is_favorite", boolToInt(*patch.IsFavorite))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE meal_templates SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := d.db.Exec(query, args...); err != nil {
		return translateErr("update template", err)
	}
	return nil
}

// ToggleFavorite flips a template's favorite flag.
func (d *DB) ToggleFavorite(id int64) error {
	res, err := d.db.Exec(`
		UPDATE meal_templates
		SET is_favorite = CASE WHEN is_favorite = 1 THEN 0 ELSE 1 END
		WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("toggle favorite: %w", ErrNotFound)
	}
	return nil
}

// DeleteTemplate removes a template. Dependent meals keep their rows with
// template_id set to null by the foreign key.
func (d *DB) DeleteTemplate(id int64) error {
	res, err := d.db.Exec("DELETE FROM meal_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete template: %w", ErrNotFound)
	}
	return nil
}

// UpsertTemplates lands a remote batch in one transaction: every row is
// inserted or updated in place, or none are. Locally tracked usage stats
// (use_count, last_used_at, is_favorite) are deliberately preserved on
// conflict — the remote never sees those mutations, so overwriting would
// silently discard them.
func (d *DB) UpsertTemplates(templates []*models.MealTemplate) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("upsert templates: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO meal_templates (
			id, user_id, name, items, calories, protein, carbs, fat,
			serving_size, serving_size_unit, is_favorite, use_count, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			items = excluded.items,
			calories = excluded.calories,
			protein = excluded.protein,
			carbs = excluded.carbs,
			fat = excluded.fat,
			serving_size = excluded.serving_size,
			serving_size_unit = excluded.serving_size_unit`)
	if err != nil {
		return 0, fmt.Errorf("upsert templates: %w", err)
	}
	defer stmt.Close()

	for _, t := range templates {
		itemsJSON, err := marshalItems(t.Items)
		if err != nil {
			return 0, fmt.Errorf("upsert template %d: %w", t.ID, err)
		}
		_, err = stmt.Exec(
			t.ID, t.UserID, t.Name, itemsJSON,
			t.Calories, t.Protein, t.Carbs, t.Fat,
			t.ServingSize, t.ServingUnit,
			boolToInt(t.IsFavorite), t.UseCount, nullableTime(t.LastUsedAt),
		)
		if err != nil {
			return 0, translateErr(fmt.Sprintf("upsert template %d", t.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert templates: %w", err)
	}
	return len(templates), nil
}

// CountTemplates returns the number of templates a user owns.
func (d *DB) CountTemplates(userID int64) (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM meal_templates WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return n, nil
}

const templateSelect = `
	SELECT id, user_id, name, items, calories, protein, carbs, fat,
	       serving_size, serving_size_unit, is_favorite, use_count, last_used_at, created_at
	FROM meal_templates`

func (d *DB) scanTemplate(row *sql.Row) (*models.MealTemplate, error) {
	var t models.MealTemplate
	var itemsJSON, servingUnit sql.NullString
	var servingSize sql.NullFloat64
	var lastUsedAt sql.NullString
	var createdAt string
	var favorite int

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &itemsJSON,
		&t.Calories, &t.Protein, &t.Carbs, &t.Fat,
		&servingSize, &servingUnit, &favorite, &t.UseCount, &lastUsedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}

	fillTemplate(&t, itemsJSON, servingSize, servingUnit, favorite, lastUsedAt, createdAt)
	return &t, nil
}

func (d *DB) scanTemplates(rows *sql.Rows) ([]*models.MealTemplate, error) {
	var templates []*models.MealTemplate

	for rows.Next() {
		var t models.MealTemplate
		var itemsJSON, servingUnit sql.NullString
		var servingSize sql.NullFloat64
		var lastUsedAt sql.NullString
		var createdAt string
		var favorite int

		err := rows.Scan(&t.ID, &t.UserID, &t.Name, &itemsJSON,
			&t.Calories, &t.Protein, &t.Carbs, &t.Fat,
			&servingSize, &servingUnit, &favorite, &t.UseCount, &lastUsedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}

		fillTemplate(&t, itemsJSON, servingSize, servingUnit, favorite, lastUsedAt, createdAt)
		templates = append(templates, &t)
	}

	return templates, rows.Err()
}

func fillTemplate(t *models.MealTemplate, itemsJSON sql.NullString, servingSize sql.NullFloat64,
	servingUnit sql.NullString, favorite int, lastUsedAt sql.NullString, createdAt string) {
	if itemsJSON.Valid && itemsJSON.String != "" {
		_ = json.Unmarshal([]byte(itemsJSON.String), &t.Items)
	}
	if servingSize.Valid {
		t.ServingSize = servingSize.Float64
	}
	if servingUnit.Valid {
		t.ServingUnit = servingUnit.String
	}
	t.IsFavorite = favorite == 1
	if lastUsedAt.Valid {
		used := parseStoredTime(lastUsedAt.String)
		t.LastUsedAt = &used
	}
	t.CreatedAt = parseStoredTime(createdAt)
}

// marshalItems serializes the item list, keeping the column null for flat
// templates.
func marshalItems(items []models.TemplateItem) (interface{}, error) {
	if len(items) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

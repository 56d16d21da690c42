// ABOUTME: Meal log operations for the local store.
// ABOUTME: Inserting a meal fires the usage and last-logged triggers.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhinavk/macrolog/internal/models"
)

// CreateMeal inserts a log entry and reads the stored row back. Template
// usage counters and the user's last_logged_at update atomically with the
// insert via triggers, never as separate application steps.
func (d *DB) CreateMeal(m *models.Meal) (*models.Meal, error) {
	query := `
		INSERT INTO meals (
			user_id, description, total_calories, protein, carbs, fat, date, template_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := d.db.Exec(query,
		m.UserID, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat,
		m.Date, nullableID(m.TemplateID),
	)
	if err != nil {
		return nil, translateErr("create meal", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return d.GetMeal(id)
}

// GetMeal retrieves a meal by id.
func (d *DB) GetMeal(id int64) (*models.Meal, error) {
	return d.scanMeal(d.db.QueryRow(mealSelect+" WHERE id = ?", id))
}

// MealsByDate returns a user's meals for one calendar date, newest first.
func (d *DB) MealsByDate(userID int64, date string) ([]*models.Meal, error) {
	rows, err := d.db.Query(mealSelect+`
		WHERE user_id = ? AND date = ?
		ORDER BY created_at DESC`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("meals by date: %w", err)
	}
	defer rows.Close()
	return d.scanMeals(rows)
}

// MealsByDateRange returns a user's meals between two dates inclusive.
func (d *DB) MealsByDateRange(userID int64, start, end string) ([]*models.Meal, error) {
	rows, err := d.db.Query(mealSelect+`
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC, created_at DESC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("meals by date range: %w", err)
	}
	defer rows.Close()
	return d.scanMeals(rows)
}

// DailyTotals aggregates macros and meal count for one date.
func (d *DB) DailyTotals(userID int64, date string) (models.Macros, int, error) {
	var totals models.Macros
	var count int
	err := d.db.QueryRow(`
		SELECT COALESCE(SUM(total_calories), 0),
		       COALESCE(SUM(protein), 0),
		       COALESCE(SUM(carbs), 0),
		       COALESCE(SUM(fat), 0),
		       COUNT(*)
		FROM meals
		WHERE user_id = ? AND date = ?`, userID, date).
		Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat, &count)
	if err != nil {
		return models.Macros{}, 0, fmt.Errorf("daily totals: %w", err)
	}
	return totals, count, nil
}

// DaySummary is one day's aggregated nutrition.
type DaySummary struct {
	Date      string
	Totals    models.Macros
	MealCount int
}

// WeeklySummary aggregates per-day totals across a date range.
func (d *DB) WeeklySummary(userID int64, start, end string) ([]DaySummary, error) {
	rows, err := d.db.Query(`
		SELECT date,
		       SUM(total_calories), SUM(protein), SUM(carbs), SUM(fat),
		       COUNT(*)
		FROM meals
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY date
		ORDER BY date DESC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("weekly summary: %w", err)
	}
	defer rows.Close()

	var days []DaySummary
	for rows.Next() {
		var day DaySummary
		err := rows.Scan(&day.Date,
			&day.Totals.Calories, &day.Totals.Protein, &day.Totals.Carbs, &day.Totals.Fat,
			&day.MealCount)
		if err != nil {
			return nil, fmt.Errorf("scan day summary: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// RecentMeals returns a user's latest log entries for quick re-logging.
func (d *DB) RecentMeals(userID int64, limit int) ([]*models.Meal, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(mealSelect+`
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent meals: %w", err)
	}
	defer rows.Close()
	return d.scanMeals(rows)
}

// DeleteMeal removes a log entry.
func (d *DB) DeleteMeal(id int64) error {
	res, err := d.db.Exec("DELETE FROM meals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete meal: %w", ErrNotFound)
	}
	return nil
}

// HasLoggedOn reports whether the user logged any meal on the date.
func (d *DB) HasLoggedOn(userID int64, date string) (bool, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM meals WHERE user_id = ? AND date = ?",
		userID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has logged on: %w", err)
	}
	return n > 0, nil
}

const mealSelect = `
	SELECT id, user_id, description, total_calories, protein, carbs, fat,
	       date, template_id, created_at
	FROM meals`

func (d *DB) scanMeal(row *sql.Row) (*models.Meal, error) {
	var m models.Meal
	var templateID sql.NullInt64
	var createdAt string

	err := row.Scan(&m.ID, &m.UserID, &m.Description,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fat,
		&m.Date, &templateID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	if templateID.Valid {
		id := templateID.Int64
		m.TemplateID = &id
	}
	m.CreatedAt = parseStoredTime(createdAt)
	return &m, nil
}

func (d *DB) scanMeals(rows *sql.Rows) ([]*models.Meal, error) {
	var meals []*models.Meal
	for rows.Next() {
		var m models.Meal
		var templateID sql.NullInt64
		var createdAt string

		err := rows.Scan(&m.ID, &m.UserID, &m.Description,
			&m.Calories, &m.Protein, &m.Carbs, &m.Fat,
			&m.Date, &templateID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}

		if templateID.Valid {
			id := templateID.Int64
			m.TemplateID = &id
		}
		m.CreatedAt = parseStoredTime(createdAt)
		meals = append(meals, &m)
	}
	return meals, rows.Err()
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// ABOUTME: BodyGoal operations for the local store.
// ABOUTME: Starting a goal deactivates any previous active goal.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhinavk/macrolog/internal/models"
)

// CreateBodyGoal starts a new goal, deactivating any active one first so at
// most one goal is active per user.
func (d *DB) CreateBodyGoal(g *models.BodyGoal) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create body goal: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"UPDATE body_goals SET is_active = 0 WHERE user_id = ? AND is_active = 1",
		g.UserID); err != nil {
		return fmt.Errorf("create body goal: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO body_goals (
			user_id, goal_type, started_at, start_weight, target_weight, duration_days, is_active
		) VALUES (?, ?, ?, ?, ?, ?, 1)`,
		g.UserID, string(g.GoalType), g.StartedAt, g.StartWeight, g.TargetWeight, g.DurationDays)
	if err != nil {
		return translateErr("create body goal", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create body goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create body goal: %w", err)
	}
	g.ID = id
	g.IsActive = true
	return nil
}

// ActiveBodyGoal returns the user's current goal, or ErrNotFound.
func (d *DB) ActiveBodyGoal(userID int64) (*models.BodyGoal, error) {
	row := d.db.QueryRow(`
		SELECT id, user_id, goal_type, started_at, start_weight, target_weight,
		       duration_days, is_active, completed_at, created_at
		FROM body_goals
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC
		LIMIT 1`, userID)

	var g models.BodyGoal
	var goalType string
	var durationDays sql.NullInt64
	var completedAt sql.NullString
	var createdAt string
	var active int

	err := row.Scan(&g.ID, &g.UserID, &goalType, &g.StartedAt,
		&g.StartWeight, &g.TargetWeight, &durationDays, &active, &completedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan body goal: %w", err)
	}

	g.GoalType = models.GoalType(goalType)
	if durationDays.Valid {
		days := int(durationDays.Int64)
		g.DurationDays = &days
	}
	g.IsActive = active == 1
	if completedAt.Valid {
		s := completedAt.String
		g.CompletedAt = &s
	}
	g.CreatedAt = parseStoredTime(createdAt)
	return &g, nil
}

// CompleteBodyGoal marks a goal finished on the given date.
func (d *DB) CompleteBodyGoal(id int64, date string) error {
	res, err := d.db.Exec(`
		UPDATE body_goals
		SET is_active = 0, completed_at = ?
		WHERE id = ?`, date, id)
	if err != nil {
		return fmt.Errorf("complete body goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete body goal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("complete body goal: %w", ErrNotFound)
	}
	return nil
}

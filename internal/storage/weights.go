// ABOUTME: WeightLog operations for the local store.
// ABOUTME: One entry per user per date, enforced by a unique constraint.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhinavk/macrolog/internal/models"
)

// CreateWeightLog inserts a measurement. A second entry for the same user
// and date surfaces as ErrDuplicate.
func (d *DB) CreateWeightLog(w *models.WeightLog) error {
	res, err := d.db.Exec(`
		INSERT INTO weight_logs (user_id, date, weight, notes)
		VALUES (?, ?, ?, ?)`,
		w.UserID, w.Date, w.Weight, w.Notes)
	if err != nil {
		return translateErr("create weight log", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create weight log: %w", err)
	}
	w.ID = id
	return nil
}

// ListWeightLogs returns a user's measurements, newest first.
func (d *DB) ListWeightLogs(userID int64, limit int) ([]*models.WeightLog, error) {
	query := weightSelect + " WHERE user_id = ? ORDER BY date DESC"
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weight logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.WeightLog
	for rows.Next() {
		w, err := scanWeightRow(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, w)
	}
	return logs, rows.Err()
}

// LatestWeight returns the most recent measurement.
func (d *DB) LatestWeight(userID int64) (*models.WeightLog, error) {
	row := d.db.QueryRow(weightSelect+`
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT 1`, userID)

	var w models.WeightLog
	var notes sql.NullString
	var createdAt string
	err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.Weight, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan weight log: %w", err)
	}
	if notes.Valid {
		s := notes.String
		w.Notes = &s
	}
	w.CreatedAt = parseStoredTime(createdAt)
	return &w, nil
}

const weightSelect = `
	SELECT id, user_id, date, weight, notes, created_at
	FROM weight_logs`

func scanWeightRow(rows *sql.Rows) (*models.WeightLog, error) {
	var w models.WeightLog
	var notes sql.NullString
	var createdAt string

	if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Weight, &notes, &createdAt); err != nil {
		return nil, fmt.Errorf("scan weight log: %w", err)
	}
	if notes.Valid {
		s := notes.String
		w.Notes = &s
	}
	w.CreatedAt = parseStoredTime(createdAt)
	return &w, nil
}

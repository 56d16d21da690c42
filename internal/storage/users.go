// ABOUTME: User CRUD for the local store, single-tenant per install.
// ABOUTME: Partial updates go through the typed UserPatch field mask.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhinavk/macrolog/internal/models"
)

// CreateUser inserts the onboarded user and fills in the assigned id.
func (d *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (
			name, age, sex, height, weight, goal, activity_level,
			daily_calorie_target, daily_protein_target, daily_carbs_target, daily_fat_target,
			calorie_deficit, maintaining_calorie, onboarded, streak, longest_streak
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := d.db.Exec(query,
		u.Name, u.Age, string(u.Sex), u.Height, u.Weight,
		string(u.Goal), string(u.ActivityLevel),
		u.DailyCalorieTarget, u.DailyProteinTarget, u.DailyCarbsTarget, u.DailyFatTarget,
		u.CalorieDeficit, u.MaintainingCalorie,
		boolToInt(u.Onboarded), u.Streak, u.LongestStreak,
	)
	if err != nil {
		return translateErr("create user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	return nil
}

// GetUser retrieves a user by id.
func (d *DB) GetUser(id int64) (*models.User, error) {
	return d.scanUser(d.db.QueryRow(userSelect+" WHERE id = ?", id))
}

// CurrentUser returns the install's single user, or ErrNotFound before
// onboarding has completed.
func (d *DB) CurrentUser() (*models.User, error) {
	return d.scanUser(d.db.QueryRow(userSelect + " ORDER BY id LIMIT 1"))
}

// UserPatch selects which user columns an update touches. Nil fields are
// left untouched; an all-nil patch is a no-op.
type UserPatch struct {
	Name               *string
	Age                *int
	Height             *float64
	Weight             *float64
	Goal               *models.Goal
	ActivityLevel      *models.ActivityLevel
	DailyCalorieTarget *int
	DailyProteinTarget *int
	DailyCarbsTarget   *int
	DailyFatTarget     *int
	CalorieDeficit     *int
	MaintainingCalorie *int
	Onboarded          *bool
	Streak             *int
	LongestStreak      *int
	LastLoggedAt       *string
}

// UpdateUser applies the non-nil fields of the patch.
func (d *DB) UpdateUser(id int64, patch UserPatch) error {
	var sets []string
	var args []interface{}

	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Height != nil {
		add("height", *patch.Height)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Goal != nil {
		add("goal", string(*patch.Goal))
	}
	if patch.ActivityLevel != nil {
		add("activity_level", string(*patch.ActivityLevel))
	}
	if patch.DailyCalorieTarget != nil {
		add("daily_calorie_target", *patch.DailyCalorieTarget)
	}
	if patch.DailyProteinTarget != nil {
		add("daily_protein_target", *patch.DailyProteinTarget)
	}
	if patch.DailyCarbsTarget != nil {
		add("daily_carbs_target", *patch.DailyCarbsTarget)
	}
	if patch.DailyFatTarget != nil {
		add("daily_fat_target", *patch.DailyFatTarget)
	}
	if patch.CalorieDeficit != nil {
		add("calorie_deficit", *patch.CalorieDeficit)
	}
	if patch.MaintainingCalorie != nil {
		add("maintaining_calorie", *patch.MaintainingCalorie)
	}
	if patch.Onboarded != nil {
		add("onboarded", boolToInt(*patch.Onboarded))
	}
	if patch.Streak != nil {
		add("streak", *patch.Streak)
	}
	if patch.LongestStreak != nil {
		add("longest_streak", *patch.LongestStreak)
	}
	if patch.LastLoggedAt != nil {
		add("last_logged_at", *patch.LastLoggedAt)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := d.db.Exec(query, args...); err != nil {
		return translateErr("update user", err)
	}
	return nil
}

const userSelect = `
	SELECT id, name, age, sex, height, weight, goal, activity_level,
	       daily_calorie_target, daily_protein_target, daily_carbs_target, daily_fat_target,
	       calorie_deficit, maintaining_calorie, onboarded, streak, longest_streak,
	       last_logged_at, created_at
	FROM users`

func (d *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var sex, goal, activity, createdAt string
	var lastLogged sql.NullString
	var onboarded int

	err := row.Scan(&u.ID, &u.Name, &u.Age, &sex, &u.Height, &u.Weight,
		&goal, &activity,
		&u.DailyCalorieTarget, &u.DailyProteinTarget, &u.DailyCarbsTarget, &u.DailyFatTarget,
		&u.CalorieDeficit, &u.MaintainingCalorie, &onboarded, &u.Streak, &u.LongestStreak,
		&lastLogged, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.Sex = models.Sex(sex)
	u.Goal = models.Goal(goal)
	u.ActivityLevel = models.ActivityLevel(activity)
	u.Onboarded = onboarded == 1
	if lastLogged.Valid {
		s := lastLogged.String
		u.LastLoggedAt = &s
	}
	u.CreatedAt = parseStoredTime(createdAt)

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseStoredTime parses the timestamp formats SQLite hands back for
// DATETIME columns populated by CURRENT_TIMESTAMP or RFC3339 writes.
func parseStoredTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

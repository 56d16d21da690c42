// ABOUTME: Shared test fixtures for local store tests.
// ABOUTME: Opens a fresh SQLite database in a temp directory per test.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/abhinavk/macrolog/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB) *models.User {
	t.Helper()

	u := &models.User{
		Name: "Test User", Age: 30, Sex: models.SexMale,
		Height: 180, Weight: 80,
		Goal: models.GoalLose, ActivityLevel: models.ActivityModerate,
		DailyCalorieTarget: 2200, DailyProteinTarget: 160,
		DailyCarbsTarget: 250, DailyFatTarget: 60,
		MaintainingCalorie: 2700, CalorieDeficit: 500,
		Onboarded: true,
	}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func seedTemplate(t *testing.T, db *DB, id, userID int64) *models.MealTemplate {
	t.Helper()

	tpl := &models.MealTemplate{
		ID: id, UserID: userID, Name: "Post-Workout",
		Calories: 280, Protein: 35, Carbs: 20, Fat: 5,
		ServingSize: 1, ServingUnit: "serving",
	}
	if err := db.InsertTemplateWithID(tpl); err != nil {
		t.Fatalf("InsertTemplateWithID failed: %v", err)
	}
	return tpl
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

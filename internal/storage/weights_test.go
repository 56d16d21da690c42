// ABOUTME: Tests for weight log storage.
// ABOUTME: Verifies the one-entry-per-day constraint surfaces as ErrDuplicate.
package storage

import (
	"errors"
	"testing"

	"github.com/abhinavk/macrolog/internal/models"
)

func TestCreateAndListWeightLogs(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db)

	logs := []*models.WeightLog{
		{UserID: u.ID, Date: "2025-06-08", Weight: 80.5},
		{UserID: u.ID, Date: "2025-06-09", Weight: 80.2, Notes: strPtr("after run")},
		{UserID: u.ID, Date: "2025-06-10", Weight: 80.0},
	}
	for _, w := range logs {
		if err := db.CreateWeightLog(w); err != nil {
			t.Fatalf("CreateWeightLog failed: %v", err)
		}
	}

	got, err := db.ListWeightLogs(u.ID, 0)
	if err != nil {
		t.Fatalf("ListWeightLogs failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d logs, want 3", len(got))
	}
	if got[0].Date != "2025-06-10" {
		t.Errorf("expected newest first, got %s", got[0].Date)
	}
	if got[1].Notes == nil || *got[1].Notes != "after run" {
		t.Errorf("notes lost: %+v", got[1])
	}
}

func TestWeightLogUniquePerDay(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db)

	if err := db.CreateWeightLog(&models.WeightLog{UserID: u.ID, Date: "2025-06-10", Weight: 80}); err != nil {
		t.Fatalf("first log failed: %v", err)
	}

	err := db.CreateWeightLog(&models.WeightLog{UserID: u.ID, Date: "2025-06-10", Weight: 81})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateWeightLogRejectsFutureDate(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db)

	err := db.CreateWeightLog(&models.WeightLog{UserID: u.ID, Date: "2999-01-01", Weight: 80})
	if err == nil {
		t.Fatal("expected future-dated weight log to be rejected")
	}
}

func TestLatestWeight(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db)

	for _, w := range []*models.WeightLog{
		{UserID: u.ID, Date: "2025-06-08", Weight: 80.5},
		{UserID: u.ID, Date: "2025-06-10", Weight: 79.8},
	} {
		if err := db.CreateWeightLog(w); err != nil {
			t.Fatalf("CreateWeightLog failed: %v", err)
		}
	}

	got, err := db.LatestWeight(u.ID)
	if err != nil {
		t.Fatalf("LatestWeight failed: %v", err)
	}
	if got.Weight != 79.8 {
		t.Errorf("Weight = %v, want 79.8", got.Weight)
	}
}

func TestLatestWeightEmpty(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db)

	_, err := db.LatestWeight(u.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

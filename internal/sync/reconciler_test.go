// ABOUTME: Tests for the reconciler against a real SQLite mirror and a fake backend.
// ABOUTME: Covers write-through creates, read-through lookups, and pull merges.
package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/remote"
	"github.com/abhinavk/macrolog/internal/storage"
)

func setupLocal(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *storage.DB) *models.User {
	t.Helper()
	u := &models.User{
		Name: "Test User", Age: 30, Sex: models.SexMale,
		Height: 180, Weight: 80,
		Goal: models.GoalMaintain, ActivityLevel: models.ActivityModerate,
		DailyCalorieTarget: 2200, DailyProteinTarget: 160,
		DailyCarbsTarget: 250, DailyFatTarget: 70,
		Onboarded: true,
	}
	require.NoError(t, db.CreateUser(u))
	return u
}

func newRemote(t *testing.T, handler http.Handler) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return remote.NewClient(srv.URL, "test-token", "test-device")
}

func TestCreateTemplateWriteThrough(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/templates", r.URL.Path)

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in["id"] = 42
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))

	rec := NewReconciler(db, client)
	created, err := rec.CreateTemplate(context.Background(), &models.MealTemplate{
		UserID: u.ID, Name: "Post-Workout Shake",
		Calories: 280, Protein: 35, Carbs: 20, Fat: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	// The mirror holds the same row under the server-assigned id.
	local, err := db.GetTemplate(42)
	require.NoError(t, err)
	assert.Equal(t, "Post-Workout Shake", local.Name)
	assert.Equal(t, 280.0, local.Calories)
	assert.Equal(t, 35.0, local.Protein)
	assert.Equal(t, 0, local.UseCount)
	assert.Nil(t, local.LastUsedAt)
}

func TestCreateTemplateRecomputesFromItems(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	var sent map[string]any
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		sent["id"] = 7
		require.NoError(t, json.NewEncoder(w).Encode(sent))
	}))

	rec := NewReconciler(db, client)
	created, err := rec.CreateTemplate(context.Background(), &models.MealTemplate{
		UserID: u.ID, Name: "Bowl",
		Items: []models.TemplateItem{
			{Name: "Chicken", ServingSize: 150, ServingUnit: "g", Calories: 240, Protein: 45, Fat: 5},
			{Name: "Rice", ServingSize: 100, ServingUnit: "g", Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
		},
	})
	require.NoError(t, err)

	// Aggregates come from the item list, rounded before the upload.
	assert.Equal(t, 370.0, created.Calories)
	assert.Equal(t, 47.7, created.Protein)
	assert.Equal(t, 370.0, sent["calories"])
}

func TestCreateTemplateRemoteFailureLeavesLocalUnchanged(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "db down"})
	}))

	rec := NewReconciler(db, client)
	_, err := rec.CreateTemplate(context.Background(), &models.MealTemplate{
		UserID: u.ID, Name: "Doomed", Calories: 100,
	})

	var rej *remote.RejectedError
	require.ErrorAs(t, err, &rej)

	n, err := db.CountTemplates(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCreateTemplateMirrorFailureIsDistinct(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	// The server accepts the template but echoes back a row the local
	// check constraints refuse.
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 42, "user_id": u.ID, "name": "Corrupt", "calories": 50000,
		})
	}))

	rec := NewReconciler(db, client)
	created, err := rec.CreateTemplate(context.Background(), &models.MealTemplate{
		UserID: u.ID, Name: "Corrupt", Calories: 100,
	})

	var mirr *MirrorError
	require.ErrorAs(t, err, &mirr)
	assert.Equal(t, "template", mirr.Entity)
	assert.Equal(t, "42", mirr.Key)

	// The remote row still comes back so the caller can act on it.
	require.NotNil(t, created)
	assert.Equal(t, int64(42), created.ID)

	_, err = db.GetTemplate(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLookupBarcodeLocalHitSkipsRemote(t *testing.T) {
	db := setupLocal(t)

	var remoteCalls atomic.Int64
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalls.Add(1)
		http.NotFound(w, r)
	}))

	require.NoError(t, db.InsertBarcodeFood(&models.BarcodeFood{
		Barcode: "0123456789012", ProductName: "Protein Bar",
		ServingSize: 60, ServingUnit: "g",
		Calories: 220, Protein: 20, Carbs: 23, Fat: 7,
	}))

	rec := NewReconciler(db, client)
	food, err := rec.LookupBarcode(context.Background(), "0123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Protein Bar", food.ProductName)
	assert.Equal(t, int64(0), remoteCalls.Load())
}

func TestLookupBarcodeRemoteFallbackFillsCache(t *testing.T) {
	db := setupLocal(t)

	var remoteCalls atomic.Int64
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalls.Add(1)
		require.Equal(t, "/api/v1/barcodes/0123456789012", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"barcode": "0123456789012", "product_name": "Oat Milk",
			"serving_size": 240, "serving_size_unit": "ml",
			"calories": 120, "protein": 3, "carbs": 16, "fat": 5,
		})
	}))

	rec := NewReconciler(db, client)
	food, err := rec.LookupBarcode(context.Background(), "0123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk", food.ProductName)
	assert.Equal(t, int64(1), remoteCalls.Load())

	// Second scan of the same product is answered from the cache.
	food, err = rec.LookupBarcode(context.Background(), "0123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk", food.ProductName)
	assert.Equal(t, int64(1), remoteCalls.Load())
}

func TestLookupBarcodeLosingRacingFillKeepsFirstRow(t *testing.T) {
	db := setupLocal(t)

	// Another lookup fills the cache while this one is waiting on the
	// remote: the handler inserts the row before responding, so the
	// reconciler's own fill arrives second and must lose.
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, db.InsertBarcodeFood(&models.BarcodeFood{
			Barcode: "0123456789012", ProductName: "Oat Milk",
			ServingSize: 240, ServingUnit: "ml",
			Calories: 120, Protein: 3, Carbs: 16, Fat: 5,
		}))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"barcode": "0123456789012", "product_name": "Oat Milk (stale)",
			"serving_size": 250, "serving_size_unit": "ml",
			"calories": 130, "protein": 3, "carbs": 17, "fat": 5,
		})
	}))

	rec := NewReconciler(db, client)
	food, err := rec.LookupBarcode(context.Background(), "0123456789012")
	require.NoError(t, err)

	// The first writer wins; the caller sees the cached row, not the
	// response that lost the race.
	assert.Equal(t, "Oat Milk", food.ProductName)
	assert.Equal(t, 120.0, food.Calories)

	n, err := db.CountBarcodeFoods()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cached, err := db.GetBarcodeFood("0123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk", cached.ProductName)
}

func TestLookupBarcodeMissEverywhere(t *testing.T) {
	db := setupLocal(t)
	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	rec := NewReconciler(db, client)
	_, err := rec.LookupBarcode(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupBarcodeOfflineIsNotAMiss(t *testing.T) {
	db := setupLocal(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := remote.NewClient(srv.URL, "", "")

	rec := NewReconciler(db, client)
	_, err := rec.LookupBarcode(context.Background(), "0123456789012")
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrUnreachable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCreateBarcodeFoodWriteThrough(t *testing.T) {
	db := setupLocal(t)

	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))

	rec := NewReconciler(db, client)
	created, err := rec.CreateBarcodeFood(context.Background(), &models.BarcodeFood{
		Barcode: "5901234123457", ProductName: "Granola",
		ServingSize: 45, ServingUnit: "g",
		Calories: 190, Protein: 5, Carbs: 32, Fat: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "Granola", created.ProductName)

	local, err := db.GetBarcodeFood("5901234123457")
	require.NoError(t, err)
	assert.Equal(t, 190.0, local.Calories)
}

func TestPullTemplatesMergesAndPreservesUsage(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	// Template 42 already exists locally with per-device state: one meal
	// logged from it and the favorite flag set.
	require.NoError(t, db.InsertTemplateWithID(&models.MealTemplate{
		ID: 42, UserID: u.ID, Name: "Post-Workout",
		Calories: 280, Protein: 35, Carbs: 20, Fat: 5,
	}))
	_, err := db.CreateMeal(&models.Meal{
		UserID: u.ID, Description: "Post-Workout",
		Calories: 280, Protein: 35, Carbs: 20, Fat: 5,
		Date: "2025-06-10", TemplateID: int64Ptr(42),
	})
	require.NoError(t, err)
	require.NoError(t, db.ToggleFavorite(42))

	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"templates": []map[string]any{
				{"id": 42, "user_id": u.ID, "name": "Post-Workout v2", "calories": 300, "protein": 40, "carbs": 25, "fat": 6},
				{"id": 43, "user_id": u.ID, "name": "Breakfast", "calories": 450, "protein": 25, "carbs": 50, "fat": 15},
			},
		})
	}))

	rec := NewReconciler(db, client)
	n, err := rec.PullTemplates(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Canonical fields follow the server; per-device state survives.
	got, err := db.GetTemplate(42)
	require.NoError(t, err)
	assert.Equal(t, "Post-Workout v2", got.Name)
	assert.Equal(t, 300.0, got.Calories)
	assert.Equal(t, 1, got.UseCount)
	assert.True(t, got.IsFavorite)
	assert.NotNil(t, got.LastUsedAt)

	_, err = db.GetTemplate(43)
	require.NoError(t, err)

	// A second pull changes nothing.
	n, err = rec.PullTemplates(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := db.CountTemplates(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPullTemplatesEmptyRemote(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	client := newRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"templates": []any{}})
	}))

	rec := NewReconciler(db, client)
	n, err := rec.PullTemplates(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPullTemplatesUnreachableRemote(t *testing.T) {
	db := setupLocal(t)
	u := seedUser(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := remote.NewClient(srv.URL, "", "")

	rec := NewReconciler(db, client)
	_, err := rec.PullTemplates(context.Background(), u.ID)
	assert.ErrorIs(t, err, remote.ErrUnreachable)
}

func int64Ptr(v int64) *int64 { return &v }

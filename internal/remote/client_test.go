// ABOUTME: Tests for the sync backend client against an in-process server.
// ABOUTME: Covers status mapping, auth headers, and id round-trips.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhinavk/macrolog/internal/models"
)

func TestCreateTemplateReturnsServerID(t *testing.T) {
	var gotAuth, gotDevice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/templates" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-ID")

		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		in["id"] = 42
		in["created_at"] = "2025-06-10T08:00:00Z"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123", "device-abc")
	created, err := c.CreateTemplate(context.Background(), &models.MealTemplate{
		UserID: 1, Name: "Post-Workout", Calories: 280, Protein: 35, Carbs: 20, Fat: 5,
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("ID = %d, want 42", created.ID)
	}
	if created.Name != "Post-Workout" || created.Protein != 35 {
		t.Errorf("canonical row mismatch: %+v", created)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotDevice != "device-abc" {
		t.Errorf("X-Device-ID = %q", gotDevice)
	}
}

func TestCreateTemplateMissingIDFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "x"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	if _, err := c.CreateTemplate(context.Background(), &models.MealTemplate{Name: "x"}); err == nil {
		t.Error("expected error for response without id")
	}
}

func TestGetBarcodeFoodNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	_, err := c.GetBarcodeFood(context.Background(), "0000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorBecomesRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	_, err := c.GetTemplate(context.Background(), 1)

	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rej.Status != http.StatusInternalServerError || rej.Message != "boom" {
		t.Errorf("unexpected rejection: %+v", rej)
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(srv.URL, "", "")
	_, err := c.ListTemplates(context.Background(), 1)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestContextCancellationIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "", "")
	_, err := c.ListTemplates(ctx, 1)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestListTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") != "7" {
			t.Errorf("user_id = %q, want 7", r.URL.Query().Get("user_id"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"templates": []map[string]any{
				{"id": 1, "user_id": 7, "name": "A", "calories": 100},
				{"id": 2, "user_id": 7, "name": "B", "calories": 200},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	got, err := c.ListTemplates(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].Name != "B" {
		t.Errorf("unexpected templates: %+v", got)
	}
}

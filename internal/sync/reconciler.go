// ABOUTME: Reconciler keeps the local SQLite mirror consistent with the remote store.
// ABOUTME: Write-through creates, read-through lookups, and bulk pull reconciliation.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/abhinavk/macrolog/internal/models"
	"github.com/abhinavk/macrolog/internal/remote"
	"github.com/abhinavk/macrolog/internal/storage"
)

// LocalStore is the slice of the SQLite layer the reconciler drives.
type LocalStore interface {
	InsertTemplateWithID(t *models.MealTemplate) error
	GetTemplate(id int64) (*models.MealTemplate, error)
	UpsertTemplates(templates []*models.MealTemplate) (int, error)
	GetBarcodeFood(barcode string) (*models.BarcodeFood, error)
	InsertBarcodeFoodIfAbsent(f *models.BarcodeFood) error
}

// RemoteStore is the slice of the backend client the reconciler drives.
type RemoteStore interface {
	CreateTemplate(ctx context.Context, t *models.MealTemplate) (*models.MealTemplate, error)
	ListTemplates(ctx context.Context, userID int64) ([]*models.MealTemplate, error)
	GetBarcodeFood(ctx context.Context, barcode string) (*models.BarcodeFood, error)
	CreateBarcodeFood(ctx context.Context, f *models.BarcodeFood) (*models.BarcodeFood, error)
}

// Reconciler coordinates the two stores. The remote store owns template
// identity; the local store is an offline mirror plus per-device usage stats.
type Reconciler struct {
	local  LocalStore
	remote RemoteStore
}

func NewReconciler(local LocalStore, remote RemoteStore) *Reconciler {
	return &Reconciler{local: local, remote: remote}
}

// CreateTemplate creates a template remote-first so the server assigns the
// id, then mirrors the canonical row locally under that same id.
//
// If the remote create fails, nothing changed anywhere and only the error
// comes back. If the remote create succeeds but the local mirror fails, the
// returned template is the remote row and the error is a MirrorError: the
// record is real, just not cached on this device yet.
func (r *Reconciler) CreateTemplate(ctx context.Context, t *models.MealTemplate) (*models.MealTemplate, error) {
	t.RecomputeMacros()

	created, err := r.remote.CreateTemplate(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create template remotely: %w", err)
	}

	if err := r.local.InsertTemplateWithID(created); err != nil {
		return created, &MirrorError{Entity: "template", Key: strconv.FormatInt(created.ID, 10), Err: err}
	}

	// Read back through the local store so callers see exactly what later
	// offline reads will see.
	cached, err := r.local.GetTemplate(created.ID)
	if err != nil {
		return created, &MirrorError{Entity: "template", Key: strconv.FormatInt(created.ID, 10), Err: err}
	}
	return cached, nil
}

// CreateBarcodeFood contributes a product to the shared catalog remote-first,
// then caches the canonical row locally. The barcode is the key in both
// stores, so the local half tolerates a concurrent cache fill.
func (r *Reconciler) CreateBarcodeFood(ctx context.Context, f *models.BarcodeFood) (*models.BarcodeFood, error) {
	created, err := r.remote.CreateBarcodeFood(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create barcode food remotely: %w", err)
	}

	if err := r.local.InsertBarcodeFoodIfAbsent(created); err != nil {
		return created, &MirrorError{Entity: "barcode food", Key: created.Barcode, Err: err}
	}

	cached, err := r.local.GetBarcodeFood(created.Barcode)
	if err != nil {
		return created, &MirrorError{Entity: "barcode food", Key: created.Barcode, Err: err}
	}
	return cached, nil
}

// LookupBarcode resolves a scanned barcode local-first. On a local miss it
// consults the shared catalog and caches a hit for future offline scans.
// Returns ErrNotFound when neither store knows the barcode; remote transport
// errors pass through untouched so callers can tell "unknown product" from
// "offline".
func (r *Reconciler) LookupBarcode(ctx context.Context, barcode string) (*models.BarcodeFood, error) {
	food, err := r.local.GetBarcodeFood(barcode)
	if err == nil {
		return food, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("local barcode lookup: %w", err)
	}

	food, err = r.remote.GetBarcodeFood(ctx, barcode)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("remote barcode lookup: %w", err)
	}

	// Cache fill is best-effort: a failure here must not turn a successful
	// lookup into an error. INSERT OR IGNORE keeps a racing fill harmless.
	if err := r.local.InsertBarcodeFoodIfAbsent(food); err == nil {
		if cached, cerr := r.local.GetBarcodeFood(barcode); cerr == nil {
			return cached, nil
		}
	}
	return food, nil
}

// PullTemplates fetches the user's full template set from the remote store
// and upserts it into the local mirror in one transaction. Per-device usage
// stats survive the merge. Returns the number of templates reconciled.
// Running it twice in a row is a no-op the second time.
func (r *Reconciler) PullTemplates(ctx context.Context, userID int64) (int, error) {
	templates, err := r.remote.ListTemplates(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list remote templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	n, err := r.local.UpsertTemplates(templates)
	if err != nil {
		return 0, fmt.Errorf("upsert templates: %w", err)
	}
	return n, nil
}

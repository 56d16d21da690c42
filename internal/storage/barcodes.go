// ABOUTME: BarcodeFood catalog operations for the local store.
// ABOUTME: Insert-if-absent keeps concurrent cache fills race-safe.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhinavk/macrolog/internal/models"
)

// InsertBarcodeFood stores a new catalog entry. A duplicate barcode is
// reported as ErrDuplicate.
func (d *DB) InsertBarcodeFood(f *models.BarcodeFood) error {
	query := `
		INSERT INTO barcode_foods (
			barcode, product_name, serving_size, serving_unit,
			calories, protein, carbs, fat
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		f.Barcode, f.ProductName, f.ServingSize, f.ServingUnit,
		f.Calories, f.Protein, f.Carbs, f.Fat,
	)
	return translateErr("insert barcode food", err)
}

// InsertBarcodeFoodIfAbsent stores a catalog entry unless one already exists
// for the barcode. Losing a cache-fill race is success, not an error.
func (d *DB) InsertBarcodeFoodIfAbsent(f *models.BarcodeFood) error {
	query := `
		INSERT OR IGNORE INTO barcode_foods (
			barcode, product_name, serving_size, serving_unit,
			calories, protein, carbs, fat
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		f.Barcode, f.ProductName, f.ServingSize, f.ServingUnit,
		f.Calories, f.Protein, f.Carbs, f.Fat,
	)
	if err != nil {
		return fmt.Errorf("cache barcode food: %w", err)
	}
	return nil
}

// GetBarcodeFood retrieves a catalog entry by barcode.
func (d *DB) GetBarcodeFood(barcode string) (*models.BarcodeFood, error) {
	row := d.db.QueryRow(`
		SELECT barcode, product_name, serving_size, serving_unit,
		       calories, protein, carbs, fat, created_at
		FROM barcode_foods
		WHERE barcode = ?`, barcode)

	var f models.BarcodeFood
	var createdAt string
	err := row.Scan(&f.Barcode, &f.ProductName, &f.ServingSize, &f.ServingUnit,
		&f.Calories, &f.Protein, &f.Carbs, &f.Fat, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan barcode food: %w", err)
	}
	f.CreatedAt = parseStoredTime(createdAt)
	return &f, nil
}

// CountBarcodeFoods returns the size of the local catalog.
func (d *DB) CountBarcodeFoods() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM barcode_foods").Scan(&n); err != nil {
		return 0, fmt.Errorf("count barcode foods: %w", err)
	}
	return n, nil
}

// ABOUTME: BarcodeFood model for the crowd-sourced scan catalog.
// ABOUTME: The barcode string is the natural key in both stores.
package models

import "time"

// BarcodeFood is a catalog entry for a scanned product. There is no
// id-assignment problem here: the barcode is the shared primary key.
type BarcodeFood struct {
	Barcode     string
	ProductName string
	ServingSize float64
	ServingUnit string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	CreatedAt   time.Time
}

// Macros returns the per-serving macro values.
func (f *BarcodeFood) Macros() Macros {
	return Macros{Calories: f.Calories, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}
}

// ABOUTME: Barcode catalog endpoints of the sync backend.
// ABOUTME: The barcode string is the key; no server id assignment involved.
package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/abhinavk/macrolog/internal/models"
)

type barcodeWire struct {
	Barcode     string  `json:"barcode"`
	ProductName string  `json:"product_name"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_size_unit"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func toBarcodeWire(f *models.BarcodeFood) barcodeWire {
	return barcodeWire{
		Barcode:     f.Barcode,
		ProductName: f.ProductName,
		ServingSize: f.ServingSize,
		ServingUnit: f.ServingUnit,
		Calories:    f.Calories,
		Protein:     f.Protein,
		Carbs:       f.Carbs,
		Fat:         f.Fat,
	}
}

func (w barcodeWire) toModel() *models.BarcodeFood {
	f := &models.BarcodeFood{
		Barcode:     w.Barcode,
		ProductName: w.ProductName,
		ServingSize: w.ServingSize,
		ServingUnit: w.ServingUnit,
		Calories:    w.Calories,
		Protein:     w.Protein,
		Carbs:       w.Carbs,
		Fat:         w.Fat,
	}
	if ts, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		f.CreatedAt = ts
	}
	return f
}

// GetBarcodeFood looks up a product in the shared catalog. Returns
// ErrNotFound when no one has contributed the barcode yet.
func (c *Client) GetBarcodeFood(ctx context.Context, barcode string) (*models.BarcodeFood, error) {
	var resp barcodeWire
	path := "/api/v1/barcodes/" + url.PathEscape(barcode)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// CreateBarcodeFood contributes a product to the shared catalog and
// returns the canonical row.
func (c *Client) CreateBarcodeFood(ctx context.Context, f *models.BarcodeFood) (*models.BarcodeFood, error) {
	var resp barcodeWire
	if err := c.do(ctx, http.MethodPost, "/api/v1/barcodes", toBarcodeWire(f), &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

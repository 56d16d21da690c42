// ABOUTME: Template endpoints of the sync backend.
// ABOUTME: The server assigns template ids; responses carry the canonical row.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abhinavk/macrolog/internal/models"
)

type templateWire struct {
	ID          int64                 `json:"id,omitempty"`
	UserID      int64                 `json:"user_id"`
	Name        string                `json:"name"`
	Items       []models.TemplateItem `json:"items,omitempty"`
	Calories    float64               `json:"calories"`
	Protein     float64               `json:"protein"`
	Carbs       float64               `json:"carbs"`
	Fat         float64               `json:"fat"`
	ServingSize float64               `json:"serving_size,omitempty"`
	ServingUnit string                `json:"serving_size_unit,omitempty"`
	CreatedAt   string                `json:"created_at,omitempty"`
}

func toTemplateWire(t *models.MealTemplate) templateWire {
	return templateWire{
		UserID:      t.UserID,
		Name:        t.Name,
		Items:       t.Items,
		Calories:    t.Calories,
		Protein:     t.Protein,
		Carbs:       t.Carbs,
		Fat:         t.Fat,
		ServingSize: t.ServingSize,
		ServingUnit: t.ServingUnit,
	}
}

func (w templateWire) toModel() *models.MealTemplate {
	t := &models.MealTemplate{
		ID:          w.ID,
		UserID:      w.UserID,
		Name:        w.Name,
		Items:       w.Items,
		Calories:    w.Calories,
		Protein:     w.Protein,
		Carbs:       w.Carbs,
		Fat:         w.Fat,
		ServingSize: w.ServingSize,
		ServingUnit: w.ServingUnit,
	}
	if ts, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	return t
}

// CreateTemplate inserts a template on the server and returns the canonical
// row, including the server-assigned id. Local usage stats never travel.
func (c *Client) CreateTemplate(ctx context.Context, t *models.MealTemplate) (*models.MealTemplate, error) {
	var resp templateWire
	if err := c.do(ctx, http.MethodPost, "/api/v1/templates", toTemplateWire(t), &resp); err != nil {
		return nil, err
	}
	if resp.ID <= 0 {
		return nil, fmt.Errorf("remote: server returned template without id")
	}
	return resp.toModel(), nil
}

// GetTemplate fetches a single template by id.
func (c *Client) GetTemplate(ctx context.Context, id int64) (*models.MealTemplate, error) {
	var resp templateWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/templates/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// ListTemplates fetches every template owned by the user.
func (c *Client) ListTemplates(ctx context.Context, userID int64) ([]*models.MealTemplate, error) {
	var resp struct {
		Templates []templateWire `json:"templates"`
	}
	path := fmt.Sprintf("/api/v1/templates?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.MealTemplate, 0, len(resp.Templates))
	for _, w := range resp.Templates {
		out = append(out, w.toModel())
	}
	return out, nil
}

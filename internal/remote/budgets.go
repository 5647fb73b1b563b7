package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
)

func (c *Client) GetBudgets(ctx context.Context) ([]models.Budget, error) {
	var out []models.Budget
	if err := c.do(ctx, http.MethodGet, "/api/budget", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOrUpdateBudget(ctx context.Context, category string, amount float64) (*models.Budget, error) {
	var out models.Budget
	body := models.BudgetData{Category: category, Amount: amount}
	if err := c.do(ctx, http.MethodPost, "/api/budget", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBudgetBatch(ctx context.Context, budgets []models.BudgetData) ([]models.Budget, error) {
	var out []models.Budget
	body := dto.BudgetBatchRequest{Budgets: budgets}
	if err := c.do(ctx, http.MethodPut, "/api/budget/batch", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/budget/"+url.PathEscape(id), nil, nil)
}

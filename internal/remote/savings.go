package remote

import (
	"context"
	"net/http"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
)

// GetSavingsGoal returns the goal, or nil when none has been set. The
// backend answers 200 with null in that case, which decodes to a record
// without an ID.
func (c *Client) GetSavingsGoal(ctx context.Context) (*models.SavingsGoal, error) {
	var out models.SavingsGoal
	if err := c.do(ctx, http.MethodGet, "/api/savings-goal", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) UpdateSavingsGoal(ctx context.Context, amount float64) (*models.SavingsGoal, error) {
	var out models.SavingsGoal
	body := dto.SavingsGoalRequest{Amount: amount}
	if err := c.do(ctx, http.MethodPost, "/api/savings-goal", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

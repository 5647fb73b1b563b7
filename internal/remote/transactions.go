package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
)

func (c *Client) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, input models.TransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPut, "/api/transactions/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetSummary(ctx context.Context, params dto.SummaryParams) (*dto.Summary, error) {
	var out dto.Summary
	path := "/api/transactions/summary" + summaryQuery(params)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCategoryAnalysis(ctx context.Context, params dto.SummaryParams) ([]dto.CategoryAnalysis, error) {
	var out []dto.CategoryAnalysis
	path := "/api/transactions/analysis" + summaryQuery(params)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMonthlyTrends(ctx context.Context, params dto.SummaryParams) ([]dto.MonthlyTrend, error) {
	var out []dto.MonthlyTrend
	path := "/api/transactions/trends" + summaryQuery(params)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func summaryQuery(params dto.SummaryParams) string {
	q := url.Values{}
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	if params.StartDate != "" {
		q.Set("startDate", params.StartDate)
	}
	if params.EndDate != "" {
		q.Set("endDate", params.EndDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

package dto

import "github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

type BudgetUpsertRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type BudgetBatchRequest struct {
	Budgets []models.BudgetData `json:"budgets"`
}

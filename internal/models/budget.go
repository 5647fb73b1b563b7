package models

// Budget is a per-category spending limit. The authoritative collection holds
// at most one budget per category.
type Budget struct {
	ID        string  `json:"_id"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// BudgetData is the category/amount pair used by upsert and batch requests.
type BudgetData struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

package dto

type SavingsGoalRequest struct {
	Amount float64 `json:"amount"`
}

package models

// SavingsGoal is a singleton: the collection holds zero or one record.
type SavingsGoal struct {
	ID        string  `json:"_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

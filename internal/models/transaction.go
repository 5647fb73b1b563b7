package models

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction mirrors a transaction record as the backend serves it. The
// backend assigns IDs; records created while offline carry a provisional
// temp_ ID until the next sync replaces them.
type Transaction struct {
	ID          string          `json:"_id"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// TransactionInput is the payload for creating a transaction.
type TransactionInput struct {
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
}

// TransactionPatch is a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Amount      *float64         `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
}

// Apply merges the patch into t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
}

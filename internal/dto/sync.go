package dto

type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SyncDetails struct {
	Transactions SyncResult `json:"transactions"`
	Budgets      SyncResult `json:"budgets"`
	SavingsGoals SyncResult `json:"savingsGoals"`
}

type SyncReport struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Details *SyncDetails `json:"details,omitempty"`
}

type QueueDepths struct {
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
	SavingsGoals int `json:"savingsGoals"`
}

type StatusResponse struct {
	Online       bool        `json:"online"`
	Syncing      bool        `json:"syncing"`
	LastSyncTime string      `json:"lastSyncTime,omitempty"`
	Pending      QueueDepths `json:"pending"`
}

package models

import "encoding/json"

type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionUpdateBatch Action = "updateBatch"
	ActionDelete      Action = "delete"
)

// PendingOperation is one entry in an offline queue: a mutation performed
// while disconnected, awaiting replay against the backend. Seq is assigned by
// the store and fixes the replay order within a queue. The savings-goal queue
// leaves Action empty, its entries are always upserts.
type PendingOperation struct {
	Seq       int64           `json:"id"`
	Action    Action          `json:"action,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Attempts  int             `json:"attempts"`
}

// TransactionUpdatePayload is the queued form of a transaction update: the
// target ID plus the patch, flattened into one object on the wire.
type TransactionUpdatePayload struct {
	ID string `json:"_id"`
	TransactionPatch
}

// DeletePayload is the queued form of a delete.
type DeletePayload struct {
	ID string `json:"_id"`
}

// SavingsGoalPayload is the queued form of a savings-goal upsert.
type SavingsGoalPayload struct {
	Amount float64 `json:"amount"`
}

// DeadLetter is a pending operation that exhausted its replay attempts and
// was pulled out of its queue.
type DeadLetter struct {
	ID        int64           `json:"id"`
	Queue     string          `json:"queue"`
	Action    Action          `json:"action,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	FailedAt  int64           `json:"failedAt"`
	Reason    string          `json:"reason"`
}

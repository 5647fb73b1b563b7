package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

	"github.com/Masterminds/squirrel"
)

// Queue table names. Exported so callers can label reports and dead letters
// consistently.
const (
	QueueTransactions = "offline_transactions"
	QueueBudgets      = "offline_budgets"
	QueueSavingsGoals = "offline_savings_goals"
)

var pendingColumns = []string{"seq", "action", "data", "timestamp", "attempts"}

// EnqueueTransaction appends a pending transaction mutation; the returned
// sequence number fixes its replay position.
func (s *Store) EnqueueTransaction(ctx context.Context, action models.Action, data any) (int64, error) {
	return s.enqueue(ctx, QueueTransactions, action, data)
}

func (s *Store) EnqueueBudget(ctx context.Context, action models.Action, data any) (int64, error) {
	return s.enqueue(ctx, QueueBudgets, action, data)
}

// EnqueueSavingsGoal appends a pending goal upsert; the savings queue carries
// no action tag.
func (s *Store) EnqueueSavingsGoal(ctx context.Context, data any) (int64, error) {
	return s.enqueue(ctx, QueueSavingsGoals, "", data)
}

func (s *Store) enqueue(ctx context.Context, queue string, action models.Action, data any) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, err
	}

	sqlStr, args, err := squirrel.Insert(queue).
		Columns("action", "data", "timestamp").
		Values(string(action), string(raw), time.Now().UnixMilli()).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PendingTransactions returns the queue in enqueue order.
func (s *Store) PendingTransactions(ctx context.Context) ([]models.PendingOperation, error) {
	return s.pending(ctx, QueueTransactions, nil)
}

func (s *Store) PendingBudgets(ctx context.Context) ([]models.PendingOperation, error) {
	return s.pending(ctx, QueueBudgets, nil)
}

func (s *Store) PendingSavingsGoals(ctx context.Context) ([]models.PendingOperation, error) {
	return s.pending(ctx, QueueSavingsGoals, nil)
}

// PendingTransactionsByAction uses the action index.
func (s *Store) PendingTransactionsByAction(ctx context.Context, action models.Action) ([]models.PendingOperation, error) {
	return s.pending(ctx, QueueTransactions, squirrel.Eq{"action": string(action)})
}

func (s *Store) pending(ctx context.Context, queue string, pred any) ([]models.PendingOperation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := squirrel.Select(pendingColumns...).From(queue).OrderBy("seq ASC")
	if pred != nil {
		query = query.Where(pred)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []models.PendingOperation
	for rows.Next() {
		var op models.PendingOperation
		var action, data string
		if err := rows.Scan(&op.Seq, &action, &data, &op.Timestamp, &op.Attempts); err != nil {
			return nil, err
		}
		op.Action = models.Action(action)
		op.Data = json.RawMessage(data)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// DeletePendingTransaction removes one replayed entry; deleting an absent
// sequence is a no-op, so a concurrent pass cannot fail on it.
func (s *Store) DeletePendingTransaction(ctx context.Context, seq int64) error {
	return s.deletePending(ctx, QueueTransactions, seq)
}

func (s *Store) DeletePendingBudget(ctx context.Context, seq int64) error {
	return s.deletePending(ctx, QueueBudgets, seq)
}

func (s *Store) DeletePendingSavingsGoal(ctx context.Context, seq int64) error {
	return s.deletePending(ctx, QueueSavingsGoals, seq)
}

func (s *Store) deletePending(ctx context.Context, queue string, seq int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	sqlStr, args, err := squirrel.Delete(queue).Where(squirrel.Eq{"seq": seq}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// BumpAttempts increments the replay-failure counter and returns the new
// value.
func (s *Store) BumpAttempts(ctx context.Context, queue string, seq int64) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE "+queue+" SET attempts = attempts + 1 WHERE seq = ?", seq)
	if err != nil {
		return 0, err
	}

	var attempts int
	err = s.db.QueryRowContext(ctx,
		"SELECT attempts FROM "+queue+" WHERE seq = ?", seq).Scan(&attempts)
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

// MoveToDeadLetter pulls a poisoned entry out of its queue and records it
// with the failure reason. Dead letters are never replayed automatically.
func (s *Store) MoveToDeadLetter(ctx context.Context, queue string, op models.PendingOperation, reason string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sqlStr, args, err := squirrel.Insert("dead_letters").
		Columns("queue", "action", "data", "timestamp", "failed_at", "reason").
		Values(queue, string(op.Action), string(op.Data), op.Timestamp, time.Now().UnixMilli(), reason).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	return s.deletePending(ctx, queue, op.Seq)
}

func (s *Store) DeadLetters(ctx context.Context) ([]models.DeadLetter, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, queue, action, data, timestamp, failed_at, reason FROM dead_letters ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []models.DeadLetter
	for rows.Next() {
		var dl models.DeadLetter
		var action, data string
		if err := rows.Scan(&dl.ID, &dl.Queue, &action, &data, &dl.Timestamp, &dl.FailedAt, &dl.Reason); err != nil {
			return nil, err
		}
		dl.Action = models.Action(action)
		dl.Data = json.RawMessage(data)
		letters = append(letters, dl)
	}
	return letters, rows.Err()
}

// PendingCount returns the depth of one queue.
func (s *Store) PendingCount(ctx context.Context, queue string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+queue).Scan(&n)
	return n, err
}

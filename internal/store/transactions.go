package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

	"github.com/Masterminds/squirrel"
)

var transactionColumns = []string{"id", "amount", "category", "date", "description", "type", "created_at", "updated_at"}

// PutTransaction inserts or replaces the cached record keyed by its ID.
func (s *Store) PutTransaction(ctx context.Context, t models.Transaction) error {
	if err := s.ready(); err != nil {
		return err
	}
	query := squirrel.Insert("transactions").
		Options("OR REPLACE").
		Columns(transactionColumns...).
		Values(t.ID, t.Amount, t.Category, t.Date, t.Description, string(t.Type), t.CreatedAt, t.UpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var t models.Transaction
	row := s.db.QueryRowContext(ctx, sqlStr, args...)
	if err := scanTransaction(row, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, squirrel.Select(transactionColumns...).
		From("transactions").
		OrderBy("date DESC"))
}

// TransactionsByCategory uses the category index.
func (s *Store) TransactionsByCategory(ctx context.Context, category string) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"category": category}).
		OrderBy("date DESC"))
}

// TransactionsByType uses the type index.
func (s *Store) TransactionsByType(ctx context.Context, typ models.TransactionType) ([]models.Transaction, error) {
	return s.queryTransactions(ctx, squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"type": string(typ)}).
		OrderBy("date DESC"))
}

// DeleteTransaction removes the cached record; deleting an absent key is a
// no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sqlStr, args, err := squirrel.Delete("transactions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *Store) ClearTransactions(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions")
	return err
}

func (s *Store) queryTransactions(ctx context.Context, query squirrel.SelectBuilder) ([]models.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
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

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, t *models.Transaction) error {
	var typ string
	if err := row.Scan(&t.ID, &t.Amount, &t.Category, &t.Date, &t.Description, &typ, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	t.Type = models.TransactionType(typ)
	return nil
}

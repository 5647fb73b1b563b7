package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

	"github.com/Masterminds/squirrel"
)

var budgetColumns = []string{"id", "category", "amount", "created_at", "updated_at"}

// PutBudget inserts or replaces a budget. OR REPLACE also resolves the unique
// category index, so a provisional row is displaced when the server-assigned
// record for the same category arrives.
func (s *Store) PutBudget(ctx context.Context, b models.Budget) error {
	if err := s.ready(); err != nil {
		return err
	}
	query := squirrel.Insert("budgets").
		Options("OR REPLACE").
		Columns(budgetColumns...).
		Values(b.ID, b.Category, b.Amount, b.CreatedAt, b.UpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *Store) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	return s.budgetWhere(ctx, squirrel.Eq{"id": id})
}

// BudgetByCategory uses the unique category index.
func (s *Store) BudgetByCategory(ctx context.Context, category string) (*models.Budget, error) {
	return s.budgetWhere(ctx, squirrel.Eq{"category": category})
}

func (s *Store) budgetWhere(ctx context.Context, pred any) (*models.Budget, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sqlStr, args, err := squirrel.Select(budgetColumns...).From("budgets").Where(pred).ToSql()
	if err != nil {
		return nil, err
	}

	var b models.Budget
	err = s.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&b.ID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sqlStr, args, err := squirrel.Select(budgetColumns...).From("budgets").OrderBy("category").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sqlStr, args, err := squirrel.Delete("budgets").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *Store) ClearBudgets(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM budgets")
	return err
}

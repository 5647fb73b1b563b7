package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

	"github.com/Masterminds/squirrel"
)

var savingsGoalColumns = []string{"id", "amount", "created_at", "updated_at"}

func (s *Store) PutSavingsGoal(ctx context.Context, g models.SavingsGoal) error {
	if err := s.ready(); err != nil {
		return err
	}
	query := squirrel.Insert("savings_goals").
		Options("OR REPLACE").
		Columns(savingsGoalColumns...).
		Values(g.ID, g.Amount, g.CreatedAt, g.UpdatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetSavingsGoal returns the singleton goal, or nil when none is cached.
func (s *Store) GetSavingsGoal(ctx context.Context) (*models.SavingsGoal, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sqlStr, args, err := squirrel.Select(savingsGoalColumns...).
		From("savings_goals").
		OrderBy("rowid").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var g models.SavingsGoal
	err = s.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&g.ID, &g.Amount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) ClearSavingsGoals(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM savings_goals")
	return err
}

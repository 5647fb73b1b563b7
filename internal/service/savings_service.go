package service

import (
	"context"
	"fmt"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"go.uber.org/zap"
)

// SavingsService is the offline-aware data service for the savings-goal
// singleton.
type SavingsService struct {
	store  *store.Store
	remote *remote.Client
	oracle Oracle
	logger *zap.Logger
}

func NewSavingsService(st *store.Store, rc *remote.Client, oracle Oracle, logger *zap.Logger) *SavingsService {
	return &SavingsService{
		store:  st,
		remote: rc,
		oracle: oracle,
		logger: logger,
	}
}

// Get returns the goal, or nil when none has been set anywhere.
func (s *SavingsService) Get(ctx context.Context) (*models.SavingsGoal, error) {
	if s.oracle.Online() {
		goal, err := s.remote.GetSavingsGoal(ctx)
		if err == nil {
			if goal != nil {
				if err := s.store.PutSavingsGoal(ctx, *goal); err != nil {
					s.logger.Warn("Failed to cache savings goal", zap.Error(err))
				}
			}
			return goal, nil
		}
		s.logger.Warn("Remote fetch failed, serving cached savings goal", zap.Error(err))
	}

	goal, err := s.store.GetSavingsGoal(ctx)
	if err != nil {
		s.logger.Error("Failed to read cached savings goal", zap.Error(err))
		return nil, nil
	}
	return goal, nil
}

// Update upserts the singleton. Each offline update overwrites the cached
// record and appends its own queue entry; all entries are replayed in order
// on sync, last one winning.
func (s *SavingsService) Update(ctx context.Context, amount float64) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
	}

	if s.oracle.Online() {
		goal, err := s.remote.UpdateSavingsGoal(ctx, amount)
		if err == nil {
			if err := s.store.PutSavingsGoal(ctx, *goal); err != nil {
				s.logger.Warn("Failed to cache savings goal", zap.Error(err))
			}
			return goal, nil
		}
		s.logger.Warn("Remote savings goal update failed, storing offline", zap.Error(err))
	}
	return s.updateOffline(ctx, amount)
}

func (s *SavingsService) updateOffline(ctx context.Context, amount float64) (*models.SavingsGoal, error) {
	existing, err := s.store.GetSavingsGoal(ctx)
	if err != nil {
		return nil, err
	}

	now := models.Now()
	var goal models.SavingsGoal
	if existing != nil {
		goal = *existing
		goal.Amount = amount
		goal.UpdatedAt = now
	} else {
		goal = models.SavingsGoal{
			ID:        models.NewTempID(),
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.store.PutSavingsGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("store provisional savings goal: %w", err)
	}
	if _, err := s.store.EnqueueSavingsGoal(ctx, models.SavingsGoalPayload{Amount: amount}); err != nil {
		return nil, fmt.Errorf("queue savings goal update: %w", err)
	}
	return &goal, nil
}

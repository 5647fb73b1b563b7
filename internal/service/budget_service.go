package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"go.uber.org/zap"
)

// BudgetService is the offline-aware data service for per-category budgets.
type BudgetService struct {
	store  *store.Store
	remote *remote.Client
	oracle Oracle
	cache  *AggregateCache
	logger *zap.Logger
}

func NewBudgetService(st *store.Store, rc *remote.Client, oracle Oracle, cache *AggregateCache, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		store:  st,
		remote: rc,
		oracle: oracle,
		cache:  cache,
		logger: logger,
	}
}

func (s *BudgetService) GetAll(ctx context.Context) ([]models.Budget, error) {
	if s.oracle.Online() {
		budgets, err := s.remote.GetBudgets(ctx)
		if err == nil {
			for _, b := range budgets {
				if err := s.store.PutBudget(ctx, b); err != nil {
					s.logger.Warn("Failed to cache budget", zap.String("id", b.ID), zap.Error(err))
				}
			}
			return budgets, nil
		}
		s.logger.Warn("Remote fetch failed, serving cached budgets", zap.Error(err))
	}

	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		s.logger.Error("Failed to read cached budgets", zap.Error(err))
		return []models.Budget{}, nil
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

// CreateOrUpdate upserts the budget for a category. A budget is keyed by its
// server ID but unique per category, so the offline path reuses the cached
// record's ID when one exists.
func (s *BudgetService) CreateOrUpdate(ctx context.Context, category string, amount float64) (*models.Budget, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: budget amount must be non-negative", ErrInvalidInput)
	}

	if s.oracle.Online() {
		budget, err := s.remote.CreateOrUpdateBudget(ctx, category, amount)
		if err == nil {
			if err := s.store.PutBudget(ctx, *budget); err != nil {
				s.logger.Warn("Failed to cache budget", zap.Error(err))
			}
			return budget, nil
		}
		s.logger.Warn("Remote budget upsert failed, storing offline", zap.String("category", category), zap.Error(err))
	}

	budget, err := s.upsertOffline(ctx, category, amount)
	if err != nil {
		return nil, err
	}
	data := models.BudgetData{Category: category, Amount: amount}
	if _, err := s.store.EnqueueBudget(ctx, models.ActionUpdate, data); err != nil {
		return nil, fmt.Errorf("queue budget update: %w", err)
	}
	return budget, nil
}

// UpdateBatch upserts several budgets at once; the offline path queues one
// updateBatch entry carrying the whole request.
func (s *BudgetService) UpdateBatch(ctx context.Context, budgets []models.BudgetData) ([]models.Budget, error) {
	for _, b := range budgets {
		if b.Amount < 0 {
			return nil, fmt.Errorf("%w: budget amount must be non-negative", ErrInvalidInput)
		}
	}

	if s.oracle.Online() {
		updated, err := s.remote.UpdateBudgetBatch(ctx, budgets)
		if err == nil {
			for _, b := range updated {
				if err := s.store.PutBudget(ctx, b); err != nil {
					s.logger.Warn("Failed to cache budget", zap.Error(err))
				}
			}
			return updated, nil
		}
		s.logger.Warn("Remote batch update failed, storing offline", zap.Error(err))
	}

	updated := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		budget, err := s.upsertOffline(ctx, b.Category, b.Amount)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *budget)
	}
	if _, err := s.store.EnqueueBudget(ctx, models.ActionUpdateBatch, budgets); err != nil {
		return nil, fmt.Errorf("queue budget batch update: %w", err)
	}
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, id string) error {
	if s.oracle.Online() {
		err := s.remote.DeleteBudget(ctx, id)
		if err == nil {
			if err := s.store.DeleteBudget(ctx, id); err != nil {
				s.logger.Warn("Failed to evict deleted budget", zap.Error(err))
			}
			return nil
		}
		s.logger.Warn("Remote budget delete failed, storing offline", zap.String("id", id), zap.Error(err))
	}

	if _, err := s.store.GetBudget(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete cached budget: %w", err)
	}
	if _, err := s.store.EnqueueBudget(ctx, models.ActionDelete, models.DeletePayload{ID: id}); err != nil {
		return fmt.Errorf("queue budget delete: %w", err)
	}
	return nil
}

func (s *BudgetService) upsertOffline(ctx context.Context, category string, amount float64) (*models.Budget, error) {
	existing, err := s.store.BudgetByCategory(ctx, category)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := models.Now()
	var budget models.Budget
	if existing != nil {
		budget = *existing
		budget.Amount = amount
		budget.UpdatedAt = now
	} else {
		budget = models.Budget{
			ID:        models.NewTempID(),
			Category:  category,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.store.PutBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("store provisional budget: %w", err)
	}
	return &budget, nil
}

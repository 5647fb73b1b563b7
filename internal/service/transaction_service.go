package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"go.uber.org/zap"
)

// TransactionService is the offline-aware data service for transactions.
// Every operation tries the backend while online and falls back to the local
// store plus the pending queue; callers get the same interface either way.
type TransactionService struct {
	store  *store.Store
	remote *remote.Client
	oracle Oracle
	cache  *AggregateCache
	logger *zap.Logger
}

func NewTransactionService(st *store.Store, rc *remote.Client, oracle Oracle, cache *AggregateCache, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  st,
		remote: rc,
		oracle: oracle,
		cache:  cache,
		logger: logger,
	}
}

func (s *TransactionService) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if s.oracle.Online() {
		transactions, err := s.remote.GetTransactions(ctx)
		if err == nil {
			// Write-through record by record; a full clear here would evict
			// entries if the loop died partway.
			for _, t := range transactions {
				if err := s.store.PutTransaction(ctx, t); err != nil {
					s.logger.Warn("Failed to cache transaction", zap.String("id", t.ID), zap.Error(err))
				}
			}
			return transactions, nil
		}
		s.logger.Warn("Remote fetch failed, serving cached transactions", zap.Error(err))
	}
	return s.cached(ctx)
}

func (s *TransactionService) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	if s.oracle.Online() {
		t, err := s.remote.GetTransaction(ctx, id)
		if err == nil {
			return t, nil
		}
		s.logger.Warn("Remote fetch failed, serving cached transaction", zap.String("id", id), zap.Error(err))
	}

	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TransactionService) Create(ctx context.Context, input models.TransactionInput) (*models.Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if s.oracle.Online() {
		created, err := s.remote.CreateTransaction(ctx, input)
		if err == nil {
			if err := s.store.PutTransaction(ctx, *created); err != nil {
				s.logger.Warn("Failed to cache created transaction", zap.Error(err))
			}
			s.cache.Clear()
			return created, nil
		}
		s.logger.Warn("Remote create failed, storing offline", zap.Error(err))
	}
	return s.createOffline(ctx, input)
}

func (s *TransactionService) createOffline(ctx context.Context, input models.TransactionInput) (*models.Transaction, error) {
	now := models.Now()
	t := models.Transaction{
		ID:          models.NewTempID(),
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        input.Date,
		Description: input.Description,
		Type:        input.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.PutTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("store provisional transaction: %w", err)
	}
	if _, err := s.store.EnqueueTransaction(ctx, models.ActionCreate, input); err != nil {
		return nil, fmt.Errorf("queue transaction create: %w", err)
	}
	s.cache.Clear()
	return &t, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, *patch.Type)
	}

	if s.oracle.Online() {
		updated, err := s.remote.UpdateTransaction(ctx, id, patch)
		if err == nil {
			if err := s.store.PutTransaction(ctx, *updated); err != nil {
				s.logger.Warn("Failed to cache updated transaction", zap.Error(err))
			}
			s.cache.Clear()
			return updated, nil
		}
		s.logger.Warn("Remote update failed, storing offline", zap.String("id", id), zap.Error(err))
	}
	return s.updateOffline(ctx, id, patch)
}

func (s *TransactionService) updateOffline(ctx context.Context, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	patch.Apply(existing)
	existing.UpdatedAt = models.Now()

	if err := s.store.PutTransaction(ctx, *existing); err != nil {
		return nil, fmt.Errorf("store updated transaction: %w", err)
	}
	payload := models.TransactionUpdatePayload{ID: id, TransactionPatch: patch}
	if _, err := s.store.EnqueueTransaction(ctx, models.ActionUpdate, payload); err != nil {
		return nil, fmt.Errorf("queue transaction update: %w", err)
	}
	s.cache.Clear()
	return existing, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if s.oracle.Online() {
		err := s.remote.DeleteTransaction(ctx, id)
		if err == nil {
			if err := s.store.DeleteTransaction(ctx, id); err != nil {
				s.logger.Warn("Failed to evict deleted transaction", zap.Error(err))
			}
			s.cache.Clear()
			return nil
		}
		s.logger.Warn("Remote delete failed, storing offline", zap.String("id", id), zap.Error(err))
	}
	return s.deleteOffline(ctx, id)
}

func (s *TransactionService) deleteOffline(ctx context.Context, id string) error {
	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete cached transaction: %w", err)
	}
	if _, err := s.store.EnqueueTransaction(ctx, models.ActionDelete, models.DeletePayload{ID: id}); err != nil {
		return fmt.Errorf("queue transaction delete: %w", err)
	}
	s.cache.Clear()
	return nil
}

func (s *TransactionService) Summary(ctx context.Context, params dto.SummaryParams) (*dto.Summary, error) {
	if s.oracle.Online() {
		summary, err := s.remote.GetSummary(ctx, params)
		if err == nil {
			return summary, nil
		}
		s.logger.Warn("Remote summary failed, deriving locally", zap.Error(err))
	}

	key := "summary|" + params.Period + "|" + params.StartDate + "|" + params.EndDate
	if v, ok := s.cache.Get(key); ok {
		if summary, ok := v.(dto.Summary); ok {
			return &summary, nil
		}
	}

	transactions, _ := s.cached(ctx)
	summary := Summarize(transactions, params, time.Now())
	s.cache.Set(key, summary)
	return &summary, nil
}

func (s *TransactionService) CategoryAnalysis(ctx context.Context, params dto.SummaryParams) ([]dto.CategoryAnalysis, error) {
	if s.oracle.Online() {
		analysis, err := s.remote.GetCategoryAnalysis(ctx, params)
		if err == nil {
			return analysis, nil
		}
		s.logger.Warn("Remote category analysis failed, deriving locally", zap.Error(err))
	}

	if v, ok := s.cache.Get("analysis"); ok {
		if analysis, ok := v.([]dto.CategoryAnalysis); ok {
			return analysis, nil
		}
	}

	transactions, _ := s.cached(ctx)
	analysis := AnalyzeCategories(transactions)
	s.cache.Set("analysis", analysis)
	return analysis, nil
}

func (s *TransactionService) MonthlyTrends(ctx context.Context, params dto.SummaryParams) ([]dto.MonthlyTrend, error) {
	if s.oracle.Online() {
		trends, err := s.remote.GetMonthlyTrends(ctx, params)
		if err == nil {
			return trends, nil
		}
		s.logger.Warn("Remote trends failed, deriving locally", zap.Error(err))
	}

	if v, ok := s.cache.Get("trends"); ok {
		if trends, ok := v.([]dto.MonthlyTrend); ok {
			return trends, nil
		}
	}

	transactions, _ := s.cached(ctx)
	trends := TrendByMonth(transactions)
	s.cache.Set("trends", trends)
	return trends, nil
}

// cached reads the local collection; a read failure degrades to an empty
// result rather than surfacing to the caller.
func (s *TransactionService) cached(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		s.logger.Error("Failed to read cached transactions", zap.Error(err))
		return []models.Transaction{}, nil
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

func validateInput(input models.TransactionInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, input.Type)
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrInvalidInput)
	}
	return nil
}

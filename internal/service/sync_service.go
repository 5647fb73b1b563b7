package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"go.uber.org/zap"
)

const defaultMaxAttempts = 5

// SyncService replays the offline queues against the backend when
// connectivity returns, then refreshes each authoritative collection from
// remote truth. Replay is FIFO per queue; a failed entry is logged and left
// queued (dead-lettered once it exhausts its attempts) without aborting its
// siblings.
type SyncService struct {
	store       *store.Store
	remote      *remote.Client
	tokens      *remote.TokenStore
	oracle      Oracle
	cache       *AggregateCache
	maxAttempts int
	logger      *zap.Logger

	mu       sync.Mutex
	running  bool
	lastSync time.Time
}

func NewSyncService(st *store.Store, rc *remote.Client, tokens *remote.TokenStore, oracle Oracle, cache *AggregateCache, maxAttempts int, logger *zap.Logger) *SyncService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &SyncService{
		store:       st,
		remote:      rc,
		tokens:      tokens,
		oracle:      oracle,
		cache:       cache,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Running reports whether a sync pass is in flight.
func (s *SyncService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastSync returns when the last pass finished, zero if none has.
func (s *SyncService) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// SyncAll runs one sync pass across all three entity types. Only one pass
// runs at a time; a trigger arriving mid-pass is turned away rather than
// risking double replay against non-idempotent endpoints.
func (s *SyncService) SyncAll(ctx context.Context) dto.SyncReport {
	if !s.oracle.Online() {
		return dto.SyncReport{Success: false, Message: "no internet connection"}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("Sync already in progress, skipping trigger")
		return dto.SyncReport{Success: false, Message: "sync already in progress"}
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.lastSync = time.Now()
		s.mu.Unlock()
	}()

	// Background passes run outside user interaction; an expired token is
	// logged, entries stay queued for a pass with a fresh token.
	if !s.tokens.Valid() {
		s.logger.Warn("Sync skipped, bearer token missing or expired")
		return dto.SyncReport{Success: false, Message: "authentication required"}
	}

	s.logger.Info("Starting sync pass")
	details := &dto.SyncDetails{
		Transactions: s.syncTransactions(ctx),
		Budgets:      s.syncBudgets(ctx),
		SavingsGoals: s.syncSavingsGoals(ctx),
	}
	s.cache.Clear()
	s.logger.Info("Sync pass completed",
		zap.String("transactions", details.Transactions.Message),
		zap.String("budgets", details.Budgets.Message),
		zap.String("savingsGoals", details.SavingsGoals.Message))

	return dto.SyncReport{Success: true, Message: "Sync completed", Details: details}
}

func (s *SyncService) syncTransactions(ctx context.Context) dto.SyncResult {
	entries, err := s.store.PendingTransactions(ctx)
	if err != nil {
		s.logger.Error("Failed to load offline transactions", zap.Error(err))
		return dto.SyncResult{Success: false, Message: "failed to load offline transactions"}
	}
	if len(entries) == 0 {
		return dto.SyncResult{Success: true, Message: "no offline transactions to sync"}
	}

	synced := 0
	for _, entry := range entries {
		if err := s.replayTransaction(ctx, entry); err != nil {
			s.replayFailed(ctx, store.QueueTransactions, entry, err)
			continue
		}
		if err := s.store.DeletePendingTransaction(ctx, entry.Seq); err != nil {
			s.logger.Error("Failed to dequeue synced transaction", zap.Int64("seq", entry.Seq), zap.Error(err))
			continue
		}
		synced++
	}

	// The refresh runs even when entries failed: remote truth overwrites the
	// cache, while failed entries stay queued for the next pass.
	s.refreshTransactions(ctx)
	return dto.SyncResult{Success: true, Message: fmt.Sprintf("synced %d of %d transactions", synced, len(entries))}
}

func (s *SyncService) replayTransaction(ctx context.Context, op models.PendingOperation) error {
	switch op.Action {
	case models.ActionCreate:
		var input models.TransactionInput
		if err := json.Unmarshal(op.Data, &input); err != nil {
			return fmt.Errorf("decode create payload: %w", err)
		}
		_, err := s.remote.CreateTransaction(ctx, input)
		return err
	case models.ActionUpdate:
		var payload models.TransactionUpdatePayload
		if err := json.Unmarshal(op.Data, &payload); err != nil {
			return fmt.Errorf("decode update payload: %w", err)
		}
		_, err := s.remote.UpdateTransaction(ctx, payload.ID, payload.TransactionPatch)
		return err
	case models.ActionDelete:
		var payload models.DeletePayload
		if err := json.Unmarshal(op.Data, &payload); err != nil {
			return fmt.Errorf("decode delete payload: %w", err)
		}
		return s.remote.DeleteTransaction(ctx, payload.ID)
	default:
		return fmt.Errorf("unknown transaction action %q", op.Action)
	}
}

func (s *SyncService) refreshTransactions(ctx context.Context) {
	transactions, err := s.remote.GetTransactions(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh transaction cache", zap.Error(err))
		return
	}
	if err := s.store.ClearTransactions(ctx); err != nil {
		s.logger.Error("Failed to clear transaction cache", zap.Error(err))
		return
	}
	for _, t := range transactions {
		if err := s.store.PutTransaction(ctx, t); err != nil {
			s.logger.Warn("Failed to cache transaction", zap.String("id", t.ID), zap.Error(err))
		}
	}
}

func (s *SyncService) syncBudgets(ctx context.Context) dto.SyncResult {
	entries, err := s.store.PendingBudgets(ctx)
	if err != nil {
		s.logger.Error("Failed to load offline budgets", zap.Error(err))
		return dto.SyncResult{Success: false, Message: "failed to load offline budgets"}
	}
	if len(entries) == 0 {
		return dto.SyncResult{Success: true, Message: "no offline budgets to sync"}
	}

	synced := 0
	for _, entry := range entries {
		if err := s.replayBudget(ctx, entry); err != nil {
			s.replayFailed(ctx, store.QueueBudgets, entry, err)
			continue
		}
		if err := s.store.DeletePendingBudget(ctx, entry.Seq); err != nil {
			s.logger.Error("Failed to dequeue synced budget", zap.Int64("seq", entry.Seq), zap.Error(err))
			continue
		}
		synced++
	}

	s.refreshBudgets(ctx)
	return dto.SyncResult{Success: true, Message: fmt.Sprintf("synced %d of %d budgets", synced, len(entries))}
}

func (s *SyncService) replayBudget(ctx context.Context, op models.PendingOperation) error {
	switch op.Action {
	case models.ActionUpdate:
		var data models.BudgetData
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return fmt.Errorf("decode budget payload: %w", err)
		}
		_, err := s.remote.CreateOrUpdateBudget(ctx, data.Category, data.Amount)
		return err
	case models.ActionUpdateBatch:
		var data []models.BudgetData
		if err := json.Unmarshal(op.Data, &data); err != nil {
			return fmt.Errorf("decode budget batch payload: %w", err)
		}
		_, err := s.remote.UpdateBudgetBatch(ctx, data)
		return err
	case models.ActionDelete:
		var payload models.DeletePayload
		if err := json.Unmarshal(op.Data, &payload); err != nil {
			return fmt.Errorf("decode delete payload: %w", err)
		}
		return s.remote.DeleteBudget(ctx, payload.ID)
	default:
		return fmt.Errorf("unknown budget action %q", op.Action)
	}
}

func (s *SyncService) refreshBudgets(ctx context.Context) {
	budgets, err := s.remote.GetBudgets(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh budget cache", zap.Error(err))
		return
	}
	if err := s.store.ClearBudgets(ctx); err != nil {
		s.logger.Error("Failed to clear budget cache", zap.Error(err))
		return
	}
	for _, b := range budgets {
		if err := s.store.PutBudget(ctx, b); err != nil {
			s.logger.Warn("Failed to cache budget", zap.String("id", b.ID), zap.Error(err))
		}
	}
}

func (s *SyncService) syncSavingsGoals(ctx context.Context) dto.SyncResult {
	entries, err := s.store.PendingSavingsGoals(ctx)
	if err != nil {
		s.logger.Error("Failed to load offline savings goals", zap.Error(err))
		return dto.SyncResult{Success: false, Message: "failed to load offline savings goals"}
	}
	if len(entries) == 0 {
		return dto.SyncResult{Success: true, Message: "no offline savings goals to sync"}
	}

	synced := 0
	for _, entry := range entries {
		var payload models.SavingsGoalPayload
		err := json.Unmarshal(entry.Data, &payload)
		if err == nil {
			_, err = s.remote.UpdateSavingsGoal(ctx, payload.Amount)
		}
		if err != nil {
			s.replayFailed(ctx, store.QueueSavingsGoals, entry, err)
			continue
		}
		if err := s.store.DeletePendingSavingsGoal(ctx, entry.Seq); err != nil {
			s.logger.Error("Failed to dequeue synced savings goal", zap.Int64("seq", entry.Seq), zap.Error(err))
			continue
		}
		synced++
	}

	s.refreshSavingsGoal(ctx)
	return dto.SyncResult{Success: true, Message: fmt.Sprintf("synced %d of %d savings goals", synced, len(entries))}
}

func (s *SyncService) refreshSavingsGoal(ctx context.Context) {
	goal, err := s.remote.GetSavingsGoal(ctx)
	if err != nil {
		s.logger.Warn("Failed to refresh savings goal cache", zap.Error(err))
		return
	}
	if err := s.store.ClearSavingsGoals(ctx); err != nil {
		s.logger.Error("Failed to clear savings goal cache", zap.Error(err))
		return
	}
	if goal != nil {
		if err := s.store.PutSavingsGoal(ctx, *goal); err != nil {
			s.logger.Warn("Failed to cache savings goal", zap.Error(err))
		}
	}
}

// replayFailed records one entry's failure: bump its attempt counter, leave
// it queued for the next pass, and dead-letter it once the budget is spent.
func (s *SyncService) replayFailed(ctx context.Context, queue string, op models.PendingOperation, cause error) {
	attempts, err := s.store.BumpAttempts(ctx, queue, op.Seq)
	if err != nil {
		s.logger.Error("Failed to record replay failure", zap.String("queue", queue), zap.Int64("seq", op.Seq), zap.Error(err))
		return
	}

	s.logger.Warn("Failed to replay pending operation",
		zap.String("queue", queue),
		zap.Int64("seq", op.Seq),
		zap.Int("attempts", attempts),
		zap.Error(cause))

	if attempts < s.maxAttempts {
		return
	}
	if err := s.store.MoveToDeadLetter(ctx, queue, op, cause.Error()); err != nil {
		s.logger.Error("Failed to dead-letter pending operation", zap.String("queue", queue), zap.Int64("seq", op.Seq), zap.Error(err))
		return
	}
	s.logger.Warn("Pending operation dead-lettered after repeated failures",
		zap.String("queue", queue),
		zap.Int64("seq", op.Seq),
		zap.Int("attempts", attempts))
}

package handlers

import (
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SyncHandler struct {
	sync   *service.SyncService
	store  *store.Store
	oracle service.Oracle
	logger *zap.Logger
}

func NewSyncHandler(sync *service.SyncService, st *store.Store, oracle service.Oracle, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		store:  st,
		oracle: oracle,
		logger: logger,
	}
}

// Trigger runs a manual sync pass and returns its report. The report's
// success flag carries the outcome; the HTTP status stays 200 so UI callers
// can always read the details.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	report := h.sync.SyncAll(c.Context())
	return c.JSON(report)
}

func (h *SyncHandler) Status(c *fiber.Ctx) error {
	status := dto.StatusResponse{
		Online:  h.oracle.Online(),
		Syncing: h.sync.Running(),
	}
	if last := h.sync.LastSync(); !last.IsZero() {
		status.LastSyncTime = last.UTC().Format(time.RFC3339)
	}

	ctx := c.Context()
	for _, q := range []struct {
		name string
		dst  *int
	}{
		{store.QueueTransactions, &status.Pending.Transactions},
		{store.QueueBudgets, &status.Pending.Budgets},
		{store.QueueSavingsGoals, &status.Pending.SavingsGoals},
	} {
		n, err := h.store.PendingCount(ctx, q.name)
		if err != nil {
			h.logger.Warn("Failed to count pending operations", zap.String("queue", q.name), zap.Error(err))
			continue
		}
		*q.dst = n
	}

	return c.JSON(status)
}

package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
)

func offlineCreate(t *testing.T, env *testEnv, desc string) {
	t.Helper()
	input := models.TransactionInput{
		Amount:      10,
		Category:    "Food",
		Date:        "2024-01-10",
		Description: desc,
		Type:        models.TypeExpense,
	}
	if _, err := env.transactions(t).Create(context.Background(), input); err != nil {
		t.Fatalf("offline create %q failed: %v", desc, err)
	}
}

func TestSyncReplaysQueueInOrder(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	for _, desc := range []string{"A", "B", "C"} {
		offlineCreate(t, env, desc)
	}

	pending, err := env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("got %d pending entries, want 3", len(pending))
	}

	// The backend's canonical list is what the refresh installs locally.
	env.backend.transactions = []models.Transaction{
		{ID: "srv_A", Description: "A", Type: models.TypeExpense},
		{ID: "srv_B", Description: "B", Type: models.TypeExpense},
		{ID: "srv_C", Description: "C", Type: models.TypeExpense},
	}

	env.oracle.set(true)
	report := env.sync(t, 0).SyncAll(ctx)
	if !report.Success {
		t.Fatalf("sync failed: %s", report.Message)
	}
	if got := report.Details.Transactions.Message; got != "synced 3 of 3 transactions" {
		t.Errorf("transactions result = %q, want synced 3 of 3", got)
	}

	env.backend.mu.Lock()
	created := append([]string(nil), env.backend.createdDescriptions...)
	env.backend.mu.Unlock()
	if len(created) != 3 || created[0] != "A" || created[1] != "B" || created[2] != "C" {
		t.Errorf("replay order = %v, want [A B C]", created)
	}

	pending, err = env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("queue still holds %d entries after sync", len(pending))
	}

	// Post-sync the cache holds server records, not provisional ones.
	cached, err := env.store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to list cached transactions: %v", err)
	}
	if len(cached) != 3 {
		t.Fatalf("got %d cached transactions, want 3", len(cached))
	}
	for _, tx := range cached {
		if models.IsTempID(tx.ID) {
			t.Errorf("provisional ID %q survived sync", tx.ID)
		}
	}
}

func TestSyncIsolatesFailedEntries(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	for _, desc := range []string{"A", "B", "C"} {
		offlineCreate(t, env, desc)
	}
	env.backend.failDescriptions["B"] = true

	env.oracle.set(true)
	report := env.sync(t, 0).SyncAll(ctx)
	if !report.Success {
		t.Fatalf("sync failed: %s", report.Message)
	}
	if got := report.Details.Transactions.Message; got != "synced 2 of 3 transactions" {
		t.Errorf("transactions result = %q, want synced 2 of 3", got)
	}

	env.backend.mu.Lock()
	created := append([]string(nil), env.backend.createdDescriptions...)
	env.backend.mu.Unlock()
	if len(created) != 2 || created[0] != "A" || created[1] != "C" {
		t.Errorf("replayed = %v, want [A C]", created)
	}

	// The failed entry stays queued with its attempt recorded.
	pending, err := env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending entries, want 1", len(pending))
	}
	if pending[0].Attempts != 1 {
		t.Errorf("attempts = %d, want 1", pending[0].Attempts)
	}
	var input models.TransactionInput
	if err := json.Unmarshal(pending[0].Data, &input); err != nil {
		t.Fatalf("failed to decode retained payload: %v", err)
	}
	if input.Description != "B" {
		t.Errorf("retained entry = %q, want B", input.Description)
	}
}

func TestSyncSkipsWhenOffline(t *testing.T) {
	env := newEnv(t)
	env.oracle.set(false)

	report := env.sync(t, 0).SyncAll(context.Background())
	if report.Success {
		t.Error("sync reported success while offline")
	}
	if report.Message != "no internet connection" {
		t.Errorf("message = %q, want no internet connection", report.Message)
	}
}

func TestSyncWithEmptyQueuesIsNoOp(t *testing.T) {
	env := newEnv(t)
	env.oracle.set(true)

	report := env.sync(t, 0).SyncAll(context.Background())
	if !report.Success {
		t.Fatalf("sync failed: %s", report.Message)
	}
	if got := report.Details.Transactions.Message; got != "no offline transactions to sync" {
		t.Errorf("transactions result = %q, want nothing-to-sync", got)
	}

	// An empty queue means no replay and no refresh round-trip.
	env.backend.mu.Lock()
	listCalls := env.backend.listCalls
	env.backend.mu.Unlock()
	if listCalls != 0 {
		t.Errorf("refresh ran %d times on empty queue, want 0", listCalls)
	}
}

func TestSyncRequiresValidToken(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	offlineCreate(t, env, "A")

	env.tokens.Clear()
	env.oracle.set(true)
	report := env.sync(t, 0).SyncAll(ctx)
	if report.Success {
		t.Error("sync reported success without a token")
	}
	if report.Message != "authentication required" {
		t.Errorf("message = %q, want authentication required", report.Message)
	}

	// The queue is untouched, waiting for a pass with a fresh token.
	pending, err := env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("got %d pending entries, want 1", len(pending))
	}
}

func TestSyncExpiredTokenIsRejected(t *testing.T) {
	env := newEnv(t)
	env.tokens.Set(testToken(t, time.Now().Add(-time.Hour)))
	env.oracle.set(true)

	report := env.sync(t, 0).SyncAll(context.Background())
	if report.Message != "authentication required" {
		t.Errorf("message = %q, want authentication required", report.Message)
	}
}

func TestSyncDeadLettersExhaustedEntries(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	offlineCreate(t, env, "doomed")
	env.backend.failDescriptions["doomed"] = true

	env.oracle.set(true)
	syncService := env.sync(t, 2)

	syncService.SyncAll(ctx)
	pending, err := env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 1 || pending[0].Attempts != 1 {
		t.Fatalf("after first pass: pending = %+v, want one entry with 1 attempt", pending)
	}

	syncService.SyncAll(ctx)
	pending, err = env.store.PendingTransactions(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending entries after exhaustion, want 0", len(pending))
	}

	letters, err := env.store.DeadLetters(ctx)
	if err != nil {
		t.Fatalf("failed to load dead letters: %v", err)
	}
	if len(letters) != 1 {
		t.Fatalf("got %d dead letters, want 1", len(letters))
	}
	var input models.TransactionInput
	if err := json.Unmarshal(letters[0].Data, &input); err != nil {
		t.Fatalf("failed to decode dead letter payload: %v", err)
	}
	if input.Description != "doomed" {
		t.Errorf("dead letter payload = %q, want doomed", input.Description)
	}
}

func TestSyncReplaysBudgetQueue(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	if _, err := env.budgets(t).CreateOrUpdate(ctx, "Food", 300); err != nil {
		t.Fatalf("offline budget upsert failed: %v", err)
	}

	env.backend.budgets = []models.Budget{{ID: "b1", Category: "Food", Amount: 300}}
	env.oracle.set(true)
	report := env.sync(t, 0).SyncAll(ctx)
	if !report.Success {
		t.Fatalf("sync failed: %s", report.Message)
	}

	env.backend.mu.Lock()
	upserts := append([]models.BudgetData(nil), env.backend.budgetUpserts...)
	env.backend.mu.Unlock()
	if len(upserts) != 1 || upserts[0].Category != "Food" || upserts[0].Amount != 300 {
		t.Errorf("replayed upserts = %+v, want [{Food 300}]", upserts)
	}

	pending, err := env.store.PendingBudgets(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("budget queue still holds %d entries", len(pending))
	}

	cached, err := env.store.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("failed to list cached budgets: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != "b1" {
		t.Errorf("cached budgets = %+v, want server record b1", cached)
	}
}

func TestSyncReplaysSavingsGoalUpdatesInOrder(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	// Each offline update appends its own entry; replay order means the
	// last write wins on the backend.
	env.oracle.set(false)
	savings := env.savings(t)
	if _, err := savings.Update(ctx, 100); err != nil {
		t.Fatalf("first offline update failed: %v", err)
	}
	if _, err := savings.Update(ctx, 200); err != nil {
		t.Fatalf("second offline update failed: %v", err)
	}

	pending, err := env.store.PendingSavingsGoals(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending entries, want 2", len(pending))
	}

	env.oracle.set(true)
	report := env.sync(t, 0).SyncAll(ctx)
	if !report.Success {
		t.Fatalf("sync failed: %s", report.Message)
	}

	env.backend.mu.Lock()
	amounts := append([]float64(nil), env.backend.savingsAmounts...)
	env.backend.mu.Unlock()
	if len(amounts) != 2 || amounts[0] != 100 || amounts[1] != 200 {
		t.Errorf("replayed amounts = %v, want [100 200]", amounts)
	}

	goal, err := env.store.GetSavingsGoal(ctx)
	if err != nil {
		t.Fatalf("failed to read cached goal: %v", err)
	}
	if goal == nil || goal.Amount != 200 {
		t.Errorf("cached goal = %+v, want amount 200", goal)
	}
}

func TestSyncRejectsOverlappingPass(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	offlineCreate(t, env, "A")

	env.backend.blockEntered = make(chan struct{})
	env.backend.blockRelease = make(chan struct{})

	env.oracle.set(true)
	syncService := env.sync(t, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		syncService.SyncAll(ctx)
	}()

	select {
	case <-env.backend.blockEntered:
	case <-time.After(5 * time.Second):
		t.Fatal("first sync pass never reached the backend")
	}

	report := syncService.SyncAll(ctx)
	if report.Success {
		t.Error("overlapping sync reported success")
	}
	if report.Message != "sync already in progress" {
		t.Errorf("message = %q, want sync already in progress", report.Message)
	}

	close(env.backend.blockRelease)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first sync pass never finished")
	}

	if syncService.Running() {
		t.Error("Running() still true after pass finished")
	}
	if syncService.LastSync().IsZero() {
		t.Error("LastSync() not recorded")
	}
}

func TestSyncMessageFormat(t *testing.T) {
	// Guard the report strings the UI surfaces verbatim.
	ctx := context.Background()
	env := newEnv(t)

	env.oracle.set(false)
	offlineCreate(t, env, "A")
	env.oracle.set(true)

	report := env.sync(t, 0).SyncAll(ctx)
	if report.Message != "Sync completed" {
		t.Errorf("message = %q, want Sync completed", report.Message)
	}
	if !strings.HasPrefix(report.Details.Transactions.Message, "synced ") {
		t.Errorf("transactions message = %q, want synced prefix", report.Details.Transactions.Message)
	}
	if report.Details.Budgets.Message != "no offline budgets to sync" {
		t.Errorf("budgets message = %q", report.Details.Budgets.Message)
	}
	if report.Details.SavingsGoals.Message != "no offline savings goals to sync" {
		t.Errorf("savings goals message = %q", report.Details.SavingsGoals.Message)
	}
}

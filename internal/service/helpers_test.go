package service_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type stubOracle struct {
	mu     sync.Mutex
	online bool
}

func (o *stubOracle) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

func (o *stubOracle) set(online bool) {
	o.mu.Lock()
	o.online = online
	o.mu.Unlock()
}

// fakeBackend records every mutation the sync pass replays against it and
// serves canned collections for the refresh that follows.
type fakeBackend struct {
	mu sync.Mutex

	createdDescriptions []string
	updatedIDs          []string
	deletedIDs          []string
	budgetUpserts       []models.BudgetData
	savingsAmounts      []float64
	listCalls           int

	failAll          bool
	failDescriptions map[string]bool

	transactions []models.Transaction
	budgets      []models.Budget
	goal         models.SavingsGoal

	// When set, transaction creates signal blockEntered and wait on
	// blockRelease before responding.
	blockEntered chan struct{}
	blockRelease chan struct{}

	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{failDescriptions: make(map[string]bool)}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	b.mu.Lock()
	failAll := b.failAll
	b.mu.Unlock()
	if failAll {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "backend unavailable"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/transactions":
		b.mu.Lock()
		b.listCalls++
		transactions := b.transactions
		b.mu.Unlock()
		if transactions == nil {
			transactions = []models.Transaction{}
		}
		writeJSON(w, http.StatusOK, transactions)

	case r.Method == http.MethodPost && r.URL.Path == "/api/transactions":
		var input models.TransactionInput
		_ = json.NewDecoder(r.Body).Decode(&input)

		b.mu.Lock()
		blocked := b.blockEntered != nil
		b.mu.Unlock()
		if blocked {
			b.blockEntered <- struct{}{}
			<-b.blockRelease
		}

		b.mu.Lock()
		if b.failDescriptions[input.Description] {
			b.mu.Unlock()
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "rejected"})
			return
		}
		b.createdDescriptions = append(b.createdDescriptions, input.Description)
		b.mu.Unlock()

		now := models.Now()
		writeJSON(w, http.StatusCreated, models.Transaction{
			ID:          "srv_" + input.Description,
			Amount:      input.Amount,
			Category:    input.Category,
			Date:        input.Date,
			Description: input.Description,
			Type:        input.Type,
			CreatedAt:   now,
			UpdatedAt:   now,
		})

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/transactions/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		b.mu.Lock()
		b.updatedIDs = append(b.updatedIDs, id)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, models.Transaction{ID: id})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/transactions/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		b.mu.Lock()
		b.deletedIDs = append(b.deletedIDs, id)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && r.URL.Path == "/api/budget":
		b.mu.Lock()
		budgets := b.budgets
		b.mu.Unlock()
		if budgets == nil {
			budgets = []models.Budget{}
		}
		writeJSON(w, http.StatusOK, budgets)

	case r.Method == http.MethodPost && r.URL.Path == "/api/budget":
		var data models.BudgetData
		_ = json.NewDecoder(r.Body).Decode(&data)
		b.mu.Lock()
		b.budgetUpserts = append(b.budgetUpserts, data)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, models.Budget{ID: "srv_" + data.Category, Category: data.Category, Amount: data.Amount})

	case r.Method == http.MethodGet && r.URL.Path == "/api/savings-goal":
		b.mu.Lock()
		goal := b.goal
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, goal)

	case r.Method == http.MethodPost && r.URL.Path == "/api/savings-goal":
		var req struct {
			Amount float64 `json:"amount"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.savingsAmounts = append(b.savingsAmounts, req.Amount)
		b.goal = models.SavingsGoal{ID: "srv_goal", Amount: req.Amount}
		goal := b.goal
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, goal)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	store   *store.Store
	backend *fakeBackend
	oracle  *stubOracle
	cache   *service.AggregateCache
	tokens  *remote.TokenStore
	client  *remote.Client
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cache, err := service.NewAggregateCache()
	if err != nil {
		t.Fatalf("failed to build cache: %v", err)
	}

	backend := newFakeBackend(t)
	tokens := remote.NewTokenStore(testToken(t, time.Now().Add(time.Hour)))
	client := remote.NewClient(backend.server.URL, 2*time.Second, tokens, zap.NewNop())

	return &testEnv{
		store:   st,
		backend: backend,
		oracle:  &stubOracle{},
		cache:   cache,
		tokens:  tokens,
		client:  client,
	}
}

func (e *testEnv) transactions(t *testing.T) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(e.store, e.client, e.oracle, e.cache, zap.NewNop())
}

func (e *testEnv) budgets(t *testing.T) *service.BudgetService {
	t.Helper()
	return service.NewBudgetService(e.store, e.client, e.oracle, e.cache, zap.NewNop())
}

func (e *testEnv) savings(t *testing.T) *service.SavingsService {
	t.Helper()
	return service.NewSavingsService(e.store, e.client, e.oracle, zap.NewNop())
}

func (e *testEnv) sync(t *testing.T, maxAttempts int) *service.SyncService {
	t.Helper()
	return service.NewSyncService(e.store, e.client, e.tokens, e.oracle, e.cache, maxAttempts, zap.NewNop())
}

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

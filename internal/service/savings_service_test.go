package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"
)

func TestSavingsGetReturnsNilWhenUnset(t *testing.T) {
	env := newEnv(t)
	env.oracle.set(false)

	goal, err := env.savings(t).Get(context.Background())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if goal != nil {
		t.Errorf("goal = %+v, want nil when never set", goal)
	}
}

func TestSavingsGetOnlineUnsetCachesNothing(t *testing.T) {
	// The backend's "no goal set" answer decodes to an ID-less record; it
	// must not be cached as a junk singleton.
	ctx := context.Background()
	env := newEnv(t)
	env.oracle.set(true)

	goal, err := env.savings(t).Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if goal != nil {
		t.Errorf("goal = %+v, want nil when backend has none", goal)
	}

	cached, err := env.store.GetSavingsGoal(ctx)
	if err != nil {
		t.Fatalf("failed to read cached goal: %v", err)
	}
	if cached != nil {
		t.Errorf("cached goal = %+v, want nothing cached", cached)
	}
}

func TestSavingsUpdateOfflineOverwritesSingleton(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	env.oracle.set(false)
	svc := env.savings(t)

	first, err := svc.Update(ctx, 100)
	if err != nil {
		t.Fatalf("first offline update failed: %v", err)
	}
	if !models.IsTempID(first.ID) {
		t.Errorf("ID = %q, want provisional temp_ prefix", first.ID)
	}

	second, err := svc.Update(ctx, 200)
	if err != nil {
		t.Fatalf("second offline update failed: %v", err)
	}
	// Same singleton record, overwritten in place.
	if second.ID != first.ID {
		t.Errorf("second update minted new ID %q, want %q", second.ID, first.ID)
	}

	goal, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if goal == nil || goal.Amount != 200 {
		t.Errorf("goal = %+v, want amount 200", goal)
	}

	// Both updates queue their own entry; replay order settles the winner.
	pending, err := env.store.PendingSavingsGoals(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending entries, want 2", len(pending))
	}
	var amounts []float64
	for _, entry := range pending {
		var payload models.SavingsGoalPayload
		if err := json.Unmarshal(entry.Data, &payload); err != nil {
			t.Fatalf("failed to decode queued payload: %v", err)
		}
		amounts = append(amounts, payload.Amount)
	}
	if amounts[0] != 100 || amounts[1] != 200 {
		t.Errorf("queued amounts = %v, want [100 200]", amounts)
	}
}

func TestSavingsRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	env.oracle.set(false)
	svc := env.savings(t)

	for _, amount := range []float64{0, -50} {
		if _, err := svc.Update(ctx, amount); !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("Update(%v) err = %v, want ErrInvalidInput", amount, err)
		}
	}

	pending, err := env.store.PendingSavingsGoals(ctx)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("invalid input reached the queue: %d entries", len(pending))
	}
}

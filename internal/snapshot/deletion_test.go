package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bilancio/internal/store/memory"
)

func TestDeletionPlannerDeleteAll(t *testing.T) {
	st := memory.New()
	seedOwner(t, st, ownerA)
	seedOwner(t, st, ownerB)

	warnings := NewDeletionPlanner(st).DeleteAll(context.Background(), ownerA)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	if got := storedCounts(t, st, ownerA); got != (Counts{}) {
		t.Errorf("ownerA still has data: %+v", got)
	}
	// Other owners are untouched.
	if got := storedCounts(t, st, ownerB); got.Templates != 2 || got.Transactions != 2 {
		t.Errorf("ownerB data was touched: %+v", got)
	}
}

// failingDeleter makes chosen deletion steps fail to prove the planner is
// best-effort and keeps going.
type failingDeleter struct {
	*memory.Store
	failTransactions bool
	failBudgets      bool
}

func (f *failingDeleter) DeleteTransactions(ctx context.Context, ownerID string) error {
	if f.failTransactions {
		return errors.New("locked")
	}
	return f.Store.DeleteTransactions(ctx, ownerID)
}

func (f *failingDeleter) DeleteBudgets(ctx context.Context, ownerID string) error {
	if f.failBudgets {
		return errors.New("locked")
	}
	return f.Store.DeleteBudgets(ctx, ownerID)
}

func TestDeletionPlannerContinuesOnFailure(t *testing.T) {
	st := memory.New()
	seedOwner(t, st, ownerA)
	deleter := &failingDeleter{Store: st, failTransactions: true, failBudgets: true}

	warnings := NewDeletionPlanner(deleter).DeleteAll(context.Background(), ownerA)

	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	joined := strings.Join(warnings, "; ")
	if !strings.Contains(joined, "transactions") || !strings.Contains(joined, "budgets") {
		t.Errorf("warnings should name the failed steps: %v", warnings)
	}

	// Later steps still ran: templates and goals are gone.
	ctx := context.Background()
	templates, err := st.ListTemplates(ctx, ownerA)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 0 {
		t.Errorf("templates survived: %d", len(templates))
	}
	goals, err := st.ListSavingsGoals(ctx, ownerA)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(goals) != 0 {
		t.Errorf("goals survived: %d", len(goals))
	}
}

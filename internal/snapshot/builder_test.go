package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/store"
	"bilancio/internal/store/memory"
)

func TestBuilderBuild(t *testing.T) {
	st := memory.New()
	seedOwner(t, st, ownerA)
	seedOwner(t, st, ownerB) // must not leak into ownerA's snapshot

	snap, err := NewBuilder(st).Build(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if snap.Version != Version {
		t.Errorf("version = %q, want %q", snap.Version, Version)
	}
	if snap.UserID != ownerA {
		t.Errorf("user_id = %q, want %q", snap.UserID, ownerA)
	}
	if snap.ExportedAt.IsZero() {
		t.Error("exported_at is zero")
	}

	got := snapshotCounts(snap)
	want := Counts{Templates: 2, TemplateLines: 2, MonthlyBudgets: 2, BudgetLines: 2, Transactions: 2, SavingsGoals: 1}
	if got != want {
		t.Errorf("counts = %+v, want %+v", got, want)
	}

	md := snap.Metadata
	if md.TotalTemplates != 2 || md.TotalBudgets != 2 || md.TotalTransactions != 2 || md.TotalSavingsGoals != 1 {
		t.Errorf("metadata totals = %+v", md)
	}
	if md.DateRange.OldestBudget == nil || *md.DateRange.OldestBudget != "2025-01-01" {
		t.Errorf("oldest_budget = %v, want 2025-01-01", md.DateRange.OldestBudget)
	}
	if md.DateRange.NewestBudget == nil || *md.DateRange.NewestBudget != "2025-03-01" {
		t.Errorf("newest_budget = %v, want 2025-03-01", md.DateRange.NewestBudget)
	}

	// Budgets come back ordered by year then month.
	if snap.Data.MonthlyBudgets[0].Month != 1 || snap.Data.MonthlyBudgets[1].Month != 3 {
		t.Errorf("budgets not ordered: %+v", snap.Data.MonthlyBudgets)
	}
}

func TestBuilderBuildEmptyOwner(t *testing.T) {
	st := memory.New()

	snap, err := NewBuilder(st).Build(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := snapshotCounts(snap); got != (Counts{}) {
		t.Errorf("counts = %+v, want all zero", got)
	}
	if snap.Metadata.DateRange.OldestBudget != nil || snap.Metadata.DateRange.NewestBudget != nil {
		t.Errorf("date_range should be null for ownerless dataset: %+v", snap.Metadata.DateRange)
	}

	// Empty collections serialize as [], not null.
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"templates":null`) {
		t.Errorf("empty templates serialized as null: %s", raw)
	}
	if !strings.Contains(string(raw), `"oldest_budget":null`) {
		t.Errorf("date_range keys should be present and null: %s", raw)
	}
}

// failingReader aborts a chosen fetch to prove exports are fail-fast and
// opaque about the cause.
type failingReader struct {
	*memory.Store
	failTemplates   bool
	failBudgetLines bool
}

func (f *failingReader) ListTemplates(ctx context.Context, ownerID string) ([]core.Template, error) {
	if f.failTemplates {
		return nil, errors.New("boom")
	}
	return f.Store.ListTemplates(ctx, ownerID)
}

func (f *failingReader) ListBudgetLines(ctx context.Context, budgetIDs []string) ([]core.BudgetLine, error) {
	if f.failBudgetLines {
		return nil, errors.New("boom")
	}
	return f.Store.ListBudgetLines(ctx, budgetIDs)
}

func TestBuilderBuildFailFast(t *testing.T) {
	tests := []struct {
		name   string
		reader store.SnapshotReader
	}{
		{"first stage failure", &failingReader{Store: seeded(t), failTemplates: true}},
		{"second stage failure", &failingReader{Store: seeded(t), failBudgetLines: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(tt.reader).Build(context.Background(), ownerA)
			if !errors.Is(err, ErrExportFailed) {
				t.Fatalf("Build error = %v, want ErrExportFailed", err)
			}
		})
	}
}

func seeded(t *testing.T) *memory.Store {
	st := memory.New()
	seedOwner(t, st, ownerA)
	return st
}

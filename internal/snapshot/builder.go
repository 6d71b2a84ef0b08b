package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
	"bilancio/internal/store"
)

// Builder assembles a full snapshot for one owner. Reads are fail-fast:
// any store error aborts the whole export with no partial document. The
// underlying cause is logged, never surfaced to the caller.
type Builder struct {
	store     store.SnapshotReader
	validator *Validator
	now       func() time.Time
}

func NewBuilder(st store.SnapshotReader) *Builder {
	return &Builder{
		store:     st,
		validator: NewValidator(),
		now:       time.Now,
	}
}

func (b *Builder) Build(ctx context.Context, ownerID string) (*Snapshot, error) {
	var (
		templates []core.Template
		budgets   []core.MonthlyBudget
		goals     []core.SavingsGoal
	)

	// Root entity types have no data dependency on each other, so the
	// three fetches run concurrently and are awaited jointly.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if templates, err = b.store.ListTemplates(gctx, ownerID); err != nil {
			return fmt.Errorf("list templates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if budgets, err = b.store.ListBudgets(gctx, ownerID); err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if goals, err = b.store.ListSavingsGoals(gctx, ownerID); err != nil {
			return fmt.Errorf("list savings goals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Snapshot export failed", "owner_id", ownerID, "error", err)
		return nil, ErrExportFailed
	}

	templateIDs := make([]string, 0, len(templates))
	for _, t := range templates {
		templateIDs = append(templateIDs, t.ID)
	}
	budgetIDs := make([]string, 0, len(budgets))
	for _, bu := range budgets {
		budgetIDs = append(budgetIDs, bu.ID)
	}

	var (
		lines        []core.TemplateLine
		budgetLines  []core.BudgetLine
		transactions []core.Transaction
	)

	// Child fetches are gated on non-empty parent id sets to avoid
	// issuing "in empty set" queries.
	g, gctx = errgroup.WithContext(ctx)
	if len(templateIDs) > 0 {
		g.Go(func() error {
			var err error
			if lines, err = b.store.ListTemplateLines(gctx, templateIDs); err != nil {
				return fmt.Errorf("list template lines: %w", err)
			}
			return nil
		})
	}
	if len(budgetIDs) > 0 {
		g.Go(func() error {
			var err error
			if budgetLines, err = b.store.ListBudgetLines(gctx, budgetIDs); err != nil {
				return fmt.Errorf("list budget lines: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if transactions, err = b.store.ListTransactions(gctx, budgetIDs); err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Snapshot export failed", "owner_id", ownerID, "error", err)
		return nil, ErrExportFailed
	}

	snap := &Snapshot{
		Version:    Version,
		ExportedAt: b.now().UTC(),
		UserID:     ownerID,
		Data: Data{
			Templates:      emptyIfNil(templates),
			TemplateLines:  emptyIfNil(lines),
			MonthlyBudgets: emptyIfNil(budgets),
			BudgetLines:    emptyIfNil(budgetLines),
			Transactions:   emptyIfNil(transactions),
			SavingsGoals:   emptyIfNil(goals),
		},
		Metadata: Metadata{
			TotalTemplates:    len(templates),
			TotalBudgets:      len(budgets),
			TotalTransactions: len(transactions),
			TotalSavingsGoals: len(goals),
			DateRange:         dateRange(budgets),
		},
	}

	// A validation failure on our own assembly is an internal
	// consistency bug, reported as the same opaque export failure.
	if err := b.validator.Validate(snap); err != nil {
		slog.ErrorContext(ctx, "Assembled snapshot failed validation",
			"owner_id", ownerID, "error", err)
		return nil, ErrExportFailed
	}

	slog.InfoContext(ctx, "Snapshot exported",
		"owner_id", ownerID,
		"templates", len(templates),
		"template_lines", len(lines),
		"budgets", len(budgets),
		"budget_lines", len(budgetLines),
		"transactions", len(transactions),
		"savings_goals", len(goals))

	return snap, nil
}

// dateRange expects budgets already ordered by year then month.
func dateRange(budgets []core.MonthlyBudget) DateRange {
	if len(budgets) == 0 {
		return DateRange{}
	}
	oldest := monthStart(budgets[0])
	newest := monthStart(budgets[len(budgets)-1])
	return DateRange{OldestBudget: &oldest, NewestBudget: &newest}
}

func monthStart(b core.MonthlyBudget) string {
	return time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

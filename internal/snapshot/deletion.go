package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/store"
)

// DeletionPlanner clears an owner's existing data before a replace-mode
// import, children before parents so foreign-key constraints in the
// underlying store hold at every step. Deletion is best-effort: a failed
// step becomes a warning and never stops the remaining steps.
type DeletionPlanner struct {
	store store.SnapshotDeleter
}

func NewDeletionPlanner(st store.SnapshotDeleter) *DeletionPlanner {
	return &DeletionPlanner{store: st}
}

// DeleteAll removes every record the owner has, returning one warning per
// failed step.
func (p *DeletionPlanner) DeleteAll(ctx context.Context, ownerID string) []string {
	var (
		mu       sync.Mutex
		warnings []string
	)
	warn := func(step string, err error) {
		slog.WarnContext(ctx, "Deletion step failed, continuing",
			"owner_id", ownerID, "step", step, "error", err)
		mu.Lock()
		warnings = append(warnings, fmt.Sprintf("delete %s: %v", step, err))
		mu.Unlock()
	}

	// Transactions and budget lines both hang off budgets and off nothing
	// else, so the two deletions run concurrently.
	g := new(errgroup.Group)
	g.Go(func() error {
		if err := p.store.DeleteTransactions(ctx, ownerID); err != nil {
			warn("transactions", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.store.DeleteBudgetLines(ctx, ownerID); err != nil {
			warn("budget lines", err)
		}
		return nil
	})
	_ = g.Wait()

	if err := p.store.DeleteBudgets(ctx, ownerID); err != nil {
		warn("budgets", err)
	}
	if err := p.store.DeleteTemplateLines(ctx, ownerID); err != nil {
		warn("template lines", err)
	}
	if err := p.store.DeleteTemplates(ctx, ownerID); err != nil {
		warn("templates", err)
	}
	if err := p.store.DeleteSavingsGoals(ctx, ownerID); err != nil {
		warn("savings goals", err)
	}

	return warnings
}

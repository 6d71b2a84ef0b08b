package store

import (
	"context"

	"bilancio/internal/core"
)

// Ports for the persistence adapters. Every collection is scoped to one
// owning user, directly (templates, budgets, goals) or through the parent
// id set (lines, transactions).
type (
	// SnapshotReader provides the ordered reads the snapshot builder needs.
	// Templates, goals, template lines and budget lines come back in
	// creation order; budgets ordered by year then month; transactions by
	// transaction date.
	SnapshotReader interface {
		ListTemplates(ctx context.Context, ownerID string) ([]core.Template, error)
		ListTemplateLines(ctx context.Context, templateIDs []string) ([]core.TemplateLine, error)
		ListBudgets(ctx context.Context, ownerID string) ([]core.MonthlyBudget, error)
		ListBudgetLines(ctx context.Context, budgetIDs []string) ([]core.BudgetLine, error)
		ListTransactions(ctx context.Context, budgetIDs []string) ([]core.Transaction, error)
		ListSavingsGoals(ctx context.Context, ownerID string) ([]core.SavingsGoal, error)
	}

	// SnapshotWriter upserts one record at a time. A record with an empty
	// id is inserted under a freshly assigned id; a record with an id
	// overwrites any existing row with that id. The stored record is
	// returned so callers can observe the assigned id.
	SnapshotWriter interface {
		UpsertTemplate(ctx context.Context, t core.Template) (core.Template, error)
		UpsertTemplateLine(ctx context.Context, l core.TemplateLine) (core.TemplateLine, error)
		UpsertBudget(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error)
		UpsertBudgetLine(ctx context.Context, l core.BudgetLine) (core.BudgetLine, error)
		UpsertTransaction(ctx context.Context, x core.Transaction) (core.Transaction, error)
		UpsertSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
	}

	// SnapshotDeleter removes all of an owner's rows in one collection.
	// Line and transaction deletion is scoped through the owner's parents.
	SnapshotDeleter interface {
		DeleteTransactions(ctx context.Context, ownerID string) error
		DeleteBudgetLines(ctx context.Context, ownerID string) error
		DeleteBudgets(ctx context.Context, ownerID string) error
		DeleteTemplateLines(ctx context.Context, ownerID string) error
		DeleteTemplates(ctx context.Context, ownerID string) error
		DeleteSavingsGoals(ctx context.Context, ownerID string) error
	}

	// Store is the full persistence surface the snapshot engine runs against.
	Store interface {
		SnapshotReader
		SnapshotWriter
		SnapshotDeleter
	}
)

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// Repository implements store.Store on a local sqlite database.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListTemplates(ctx context.Context, ownerID string) ([]core.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, is_default, owner_id
		 FROM templates WHERE owner_id = ? ORDER BY created_at, rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []core.Template
	for rows.Next() {
		var t core.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsDefault, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) ListTemplateLines(ctx context.Context, templateIDs []string) ([]core.TemplateLine, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, template_id, name, amount, kind, recurrence, description
		 FROM template_lines WHERE template_id IN (%s) ORDER BY created_at, rowid`,
		placeholders(len(templateIDs)))
	rows, err := r.db.QueryContext(ctx, query, toArgs(templateIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list template lines: %w", err)
	}
	defer rows.Close()

	var out []core.TemplateLine
	for rows.Next() {
		var l core.TemplateLine
		if err := rows.Scan(&l.ID, &l.TemplateID, &l.Name, &l.Amount, &l.Kind, &l.Recurrence, &l.Description); err != nil {
			return nil, fmt.Errorf("scan template line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) ListBudgets(ctx context.Context, ownerID string) ([]core.MonthlyBudget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, template_id, month, year, description, owner_id
		 FROM monthly_budgets WHERE owner_id = ? ORDER BY year, month`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyBudget
	for rows.Next() {
		var (
			b     core.MonthlyBudget
			owner sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.TemplateID, &b.Month, &b.Year, &b.Description, &owner); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.OwnerID = owner.String
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) ListBudgetLines(ctx context.Context, budgetIDs []string) ([]core.BudgetLine, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, budget_id, name, amount, kind, recurrence, template_line_id, savings_goal_id, is_manually_adjusted
		 FROM budget_lines WHERE budget_id IN (%s) ORDER BY created_at, rowid`,
		placeholders(len(budgetIDs)))
	rows, err := r.db.QueryContext(ctx, query, toArgs(budgetIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list budget lines: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetLine
	for rows.Next() {
		var (
			l      core.BudgetLine
			lineID sql.NullString
			goalID sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.BudgetID, &l.Name, &l.Amount, &l.Kind, &l.Recurrence,
			&lineID, &goalID, &l.IsManuallyAdjusted); err != nil {
			return nil, fmt.Errorf("scan budget line: %w", err)
		}
		if lineID.Valid {
			l.TemplateLineID = &lineID.String
		}
		if goalID.Valid {
			l.SavingsGoalID = &goalID.String
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) ListTransactions(ctx context.Context, budgetIDs []string) ([]core.Transaction, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT id, budget_id, name, amount, kind, transaction_date, category, is_out_of_budget
		 FROM transactions WHERE budget_id IN (%s) ORDER BY transaction_date, rowid`,
		placeholders(len(budgetIDs)))
	rows, err := r.db.QueryContext(ctx, query, toArgs(budgetIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			x    core.Transaction
			date string
		)
		if err := rows.Scan(&x.ID, &x.BudgetID, &x.Name, &x.Amount, &x.Kind, &date, &x.Category, &x.IsOutOfBudget); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		x.TransactionDate, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *Repository) ListSavingsGoals(ctx context.Context, ownerID string) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, target_date, priority, status, owner_id
		 FROM savings_goals WHERE owner_id = ? ORDER BY created_at, rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var (
			g    core.SavingsGoal
			date string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &date, &g.Priority, &g.Status, &g.OwnerID); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		g.TargetDate, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse target date %q: %w", date, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertTemplate(ctx context.Context, t core.Template) (core.Template, error) {
	if err := t.Validate(); err != nil {
		return core.Template{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, is_default, owner_id)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, description = excluded.description,
		   is_default = excluded.is_default, owner_id = excluded.owner_id`,
		t.ID, t.Name, t.Description, t.IsDefault, t.OwnerID)
	if err != nil {
		return core.Template{}, fmt.Errorf("upsert template: %w", err)
	}
	return t, nil
}

func (r *Repository) UpsertTemplateLine(ctx context.Context, l core.TemplateLine) (core.TemplateLine, error) {
	if err := l.Validate(); err != nil {
		return core.TemplateLine{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO template_lines (id, template_id, name, amount, kind, recurrence, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   template_id = excluded.template_id, name = excluded.name, amount = excluded.amount,
		   kind = excluded.kind, recurrence = excluded.recurrence, description = excluded.description`,
		l.ID, l.TemplateID, l.Name, l.Amount, string(l.Kind), string(l.Recurrence), l.Description)
	if err != nil {
		return core.TemplateLine{}, fmt.Errorf("upsert template line: %w", err)
	}
	return l, nil
}

func (r *Repository) UpsertBudget(ctx context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error) {
	if err := b.Validate(); err != nil {
		return core.MonthlyBudget{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_budgets (id, template_id, month, year, description, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   template_id = excluded.template_id, month = excluded.month, year = excluded.year,
		   description = excluded.description, owner_id = excluded.owner_id`,
		b.ID, b.TemplateID, b.Month, b.Year, b.Description, nullable(b.OwnerID))
	if err != nil {
		return core.MonthlyBudget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return b, nil
}

func (r *Repository) UpsertBudgetLine(ctx context.Context, l core.BudgetLine) (core.BudgetLine, error) {
	if err := l.Validate(); err != nil {
		return core.BudgetLine{}, err
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_lines (id, budget_id, name, amount, kind, recurrence, template_line_id, savings_goal_id, is_manually_adjusted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   budget_id = excluded.budget_id, name = excluded.name, amount = excluded.amount,
		   kind = excluded.kind, recurrence = excluded.recurrence,
		   template_line_id = excluded.template_line_id, savings_goal_id = excluded.savings_goal_id,
		   is_manually_adjusted = excluded.is_manually_adjusted`,
		l.ID, l.BudgetID, l.Name, l.Amount, string(l.Kind), string(l.Recurrence),
		l.TemplateLineID, l.SavingsGoalID, l.IsManuallyAdjusted)
	if err != nil {
		return core.BudgetLine{}, fmt.Errorf("upsert budget line: %w", err)
	}
	return l, nil
}

func (r *Repository) UpsertTransaction(ctx context.Context, x core.Transaction) (core.Transaction, error) {
	if err := x.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if x.ID == "" {
		x.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, budget_id, name, amount, kind, transaction_date, category, is_out_of_budget)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   budget_id = excluded.budget_id, name = excluded.name, amount = excluded.amount,
		   kind = excluded.kind, transaction_date = excluded.transaction_date,
		   category = excluded.category, is_out_of_budget = excluded.is_out_of_budget`,
		x.ID, x.BudgetID, x.Name, x.Amount, string(x.Kind),
		x.TransactionDate.UTC().Format(time.RFC3339), x.Category, x.IsOutOfBudget)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("upsert transaction: %w", err)
	}
	return x, nil
}

func (r *Repository) UpsertSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (id, name, target_amount, target_date, priority, status, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, target_amount = excluded.target_amount,
		   target_date = excluded.target_date, priority = excluded.priority,
		   status = excluded.status, owner_id = excluded.owner_id`,
		g.ID, g.Name, g.TargetAmount, g.TargetDate.UTC().Format(time.RFC3339),
		string(g.Priority), string(g.Status), g.OwnerID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("upsert savings goal: %w", err)
	}
	return g, nil
}

func (r *Repository) DeleteTransactions(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE budget_id IN
		   (SELECT id FROM monthly_budgets WHERE owner_id = ?)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBudgetLines(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_lines WHERE budget_id IN
		   (SELECT id FROM monthly_budgets WHERE owner_id = ?)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget lines: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBudgets(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM monthly_budgets WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("delete budgets: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTemplateLines(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM template_lines WHERE template_id IN
		   (SELECT id FROM templates WHERE owner_id = ?)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete template lines: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTemplates(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("delete templates: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSavingsGoals(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE owner_id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("delete savings goals: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

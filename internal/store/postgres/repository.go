// Package postgres implements the snapshot store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bilancio/internal/core"
)

// Repository implements store.Store on a PostgreSQL connection pool.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &Repository{pool: pool}
	if err := r.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS templates (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			owner_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS template_lines (
			id UUID PRIMARY KEY,
			template_id UUID NOT NULL REFERENCES templates(id),
			name TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			kind TEXT NOT NULL,
			recurrence TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS savings_goals (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			target_amount DOUBLE PRECISION NOT NULL,
			target_date TIMESTAMPTZ NOT NULL,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			owner_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS monthly_budgets (
			id UUID PRIMARY KEY,
			template_id UUID NOT NULL REFERENCES templates(id),
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS budget_lines (
			id UUID PRIMARY KEY,
			budget_id UUID NOT NULL REFERENCES monthly_budgets(id),
			name TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			kind TEXT NOT NULL,
			recurrence TEXT NOT NULL,
			template_line_id UUID REFERENCES template_lines(id),
			savings_goal_id UUID REFERENCES savings_goals(id),
			is_manually_adjusted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			budget_id UUID NOT NULL REFERENCES monthly_budgets(id),
			name TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			kind TEXT NOT NULL,
			transaction_date TIMESTAMPTZ NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			is_out_of_budget BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_owner ON templates(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_owner ON monthly_budgets(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_template_lines_template ON template_lines(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budget_lines_budget ON budget_lines(budget_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_budget ON transactions(budget_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_owner ON savings_goals(owner_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) ListTemplates(ctx context.Context, ownerID string) ([]core.Template, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, is_default, owner_id
		 FROM templates WHERE owner_id = $1 ORDER BY created_at`, ownerID)
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
	rows, err := r.pool.Query(ctx,
		`SELECT id, template_id, name, amount, kind, recurrence, description
		 FROM template_lines WHERE template_id = ANY($1) ORDER BY created_at`, templateIDs)
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
	rows, err := r.pool.Query(ctx,
		`SELECT id, template_id, month, year, description, COALESCE(owner_id::text, '')
		 FROM monthly_budgets WHERE owner_id = $1 ORDER BY year, month`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyBudget
	for rows.Next() {
		var b core.MonthlyBudget
		if err := rows.Scan(&b.ID, &b.TemplateID, &b.Month, &b.Year, &b.Description, &b.OwnerID); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) ListBudgetLines(ctx context.Context, budgetIDs []string) ([]core.BudgetLine, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, budget_id, name, amount, kind, recurrence, template_line_id, savings_goal_id, is_manually_adjusted
		 FROM budget_lines WHERE budget_id = ANY($1) ORDER BY created_at`, budgetIDs)
	if err != nil {
		return nil, fmt.Errorf("list budget lines: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetLine
	for rows.Next() {
		var l core.BudgetLine
		if err := rows.Scan(&l.ID, &l.BudgetID, &l.Name, &l.Amount, &l.Kind, &l.Recurrence,
			&l.TemplateLineID, &l.SavingsGoalID, &l.IsManuallyAdjusted); err != nil {
			return nil, fmt.Errorf("scan budget line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) ListTransactions(ctx context.Context, budgetIDs []string) ([]core.Transaction, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, budget_id, name, amount, kind, transaction_date, category, is_out_of_budget
		 FROM transactions WHERE budget_id = ANY($1) ORDER BY transaction_date`, budgetIDs)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var x core.Transaction
		if err := rows.Scan(&x.ID, &x.BudgetID, &x.Name, &x.Amount, &x.Kind,
			&x.TransactionDate, &x.Category, &x.IsOutOfBudget); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *Repository) ListSavingsGoals(ctx context.Context, ownerID string) ([]core.SavingsGoal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, target_amount, target_date, priority, status, owner_id
		 FROM savings_goals WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.TargetDate, &g.Priority, &g.Status, &g.OwnerID); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
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
	_, err := r.pool.Exec(ctx,
		`INSERT INTO templates (id, name, description, is_default, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, description = EXCLUDED.description,
		   is_default = EXCLUDED.is_default, owner_id = EXCLUDED.owner_id`,
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
	_, err := r.pool.Exec(ctx,
		`INSERT INTO template_lines (id, template_id, name, amount, kind, recurrence, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   template_id = EXCLUDED.template_id, name = EXCLUDED.name, amount = EXCLUDED.amount,
		   kind = EXCLUDED.kind, recurrence = EXCLUDED.recurrence, description = EXCLUDED.description`,
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
	var owner any
	if b.OwnerID != "" {
		owner = b.OwnerID
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO monthly_budgets (id, template_id, month, year, description, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   template_id = EXCLUDED.template_id, month = EXCLUDED.month, year = EXCLUDED.year,
		   description = EXCLUDED.description, owner_id = EXCLUDED.owner_id`,
		b.ID, b.TemplateID, b.Month, b.Year, b.Description, owner)
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
	_, err := r.pool.Exec(ctx,
		`INSERT INTO budget_lines (id, budget_id, name, amount, kind, recurrence, template_line_id, savings_goal_id, is_manually_adjusted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   budget_id = EXCLUDED.budget_id, name = EXCLUDED.name, amount = EXCLUDED.amount,
		   kind = EXCLUDED.kind, recurrence = EXCLUDED.recurrence,
		   template_line_id = EXCLUDED.template_line_id, savings_goal_id = EXCLUDED.savings_goal_id,
		   is_manually_adjusted = EXCLUDED.is_manually_adjusted`,
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
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, budget_id, name, amount, kind, transaction_date, category, is_out_of_budget)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   budget_id = EXCLUDED.budget_id, name = EXCLUDED.name, amount = EXCLUDED.amount,
		   kind = EXCLUDED.kind, transaction_date = EXCLUDED.transaction_date,
		   category = EXCLUDED.category, is_out_of_budget = EXCLUDED.is_out_of_budget`,
		x.ID, x.BudgetID, x.Name, x.Amount, string(x.Kind), x.TransactionDate.UTC(), x.Category, x.IsOutOfBudget)
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
	_, err := r.pool.Exec(ctx,
		`INSERT INTO savings_goals (id, name, target_amount, target_date, priority, status, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, target_amount = EXCLUDED.target_amount,
		   target_date = EXCLUDED.target_date, priority = EXCLUDED.priority,
		   status = EXCLUDED.status, owner_id = EXCLUDED.owner_id`,
		g.ID, g.Name, g.TargetAmount, g.TargetDate.UTC(), string(g.Priority), string(g.Status), g.OwnerID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("upsert savings goal: %w", err)
	}
	return g, nil
}

func (r *Repository) DeleteTransactions(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE budget_id IN
		   (SELECT id FROM monthly_budgets WHERE owner_id = $1)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBudgetLines(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM budget_lines WHERE budget_id IN
		   (SELECT id FROM monthly_budgets WHERE owner_id = $1)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget lines: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBudgets(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM monthly_budgets WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("delete budgets: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTemplateLines(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM template_lines WHERE template_id IN
		   (SELECT id FROM templates WHERE owner_id = $1)`, ownerID)
	if err != nil {
		return fmt.Errorf("delete template lines: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTemplates(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("delete templates: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSavingsGoals(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM savings_goals WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("delete savings goals: %w", err)
	}
	return nil
}

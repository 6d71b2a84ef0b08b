package snapshot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/store/memory"
)

const (
	ownerA = "11111111-1111-4111-8111-111111111111"
	ownerB = "22222222-2222-4222-8222-222222222222"
)

func testID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

func strptr(s string) *string {
	return &s
}

// seedOwner fills the store with a small but fully linked dataset:
// 2 templates, 2 template lines, 2 budgets, 2 budget lines (one linked to
// a template line and a goal), 2 transactions, 1 savings goal.
func seedOwner(t *testing.T, st *memory.Store, ownerID string) {
	t.Helper()
	ctx := context.Background()

	goal := core.SavingsGoal{
		ID: testID(1), Name: "Emergency fund", TargetAmount: 5000,
		TargetDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Priority:   core.PriorityHigh, Status: core.GoalActive, OwnerID: ownerID,
	}
	if _, err := st.UpsertSavingsGoal(ctx, goal); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	for i, name := range []string{"Default", "Vacation"} {
		tpl := core.Template{ID: testID(10 + i), Name: name, IsDefault: i == 0, OwnerID: ownerID}
		if _, err := st.UpsertTemplate(ctx, tpl); err != nil {
			t.Fatalf("seed template: %v", err)
		}
	}
	for i, name := range []string{"Salary", "Rent"} {
		kind := core.KindIncome
		if i == 1 {
			kind = core.KindExpense
		}
		line := core.TemplateLine{
			ID: testID(20 + i), TemplateID: testID(10), Name: name,
			Amount: 1000, Kind: kind, Recurrence: core.RecurrenceFixed,
		}
		if _, err := st.UpsertTemplateLine(ctx, line); err != nil {
			t.Fatalf("seed template line: %v", err)
		}
	}
	for i, month := range []int{3, 1} {
		b := core.MonthlyBudget{
			ID: testID(30 + i), TemplateID: testID(10), Month: month, Year: 2025,
			Description: "budget", OwnerID: ownerID,
		}
		if _, err := st.UpsertBudget(ctx, b); err != nil {
			t.Fatalf("seed budget: %v", err)
		}
	}
	lines := []core.BudgetLine{
		{
			ID: testID(40), BudgetID: testID(30), Name: "Rent", Amount: 950,
			Kind: core.KindExpense, Recurrence: core.RecurrenceFixed,
			TemplateLineID: strptr(testID(21)), SavingsGoalID: strptr(testID(1)),
		},
		{
			ID: testID(41), BudgetID: testID(31), Name: "Groceries", Amount: 300,
			Kind: core.KindExpense, Recurrence: core.RecurrenceVariable,
		},
	}
	for _, l := range lines {
		if _, err := st.UpsertBudgetLine(ctx, l); err != nil {
			t.Fatalf("seed budget line: %v", err)
		}
	}
	txs := []core.Transaction{
		{
			ID: testID(50), BudgetID: testID(30), Name: "Supermarket", Amount: 42.5,
			Kind:            core.KindExpense,
			TransactionDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Category:        "groceries",
		},
		{
			ID: testID(51), BudgetID: testID(31), Name: "Paycheck", Amount: 2100,
			Kind:            core.KindIncome,
			TransactionDate: time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, x := range txs {
		if _, err := st.UpsertTransaction(ctx, x); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

// storedCounts reads back everything the owner has.
func storedCounts(t *testing.T, st *memory.Store, ownerID string) Counts {
	t.Helper()
	ctx := context.Background()

	templates, err := st.ListTemplates(ctx, ownerID)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	budgets, err := st.ListBudgets(ctx, ownerID)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	goals, err := st.ListSavingsGoals(ctx, ownerID)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	var templateIDs []string
	for _, tpl := range templates {
		templateIDs = append(templateIDs, tpl.ID)
	}
	var budgetIDs []string
	for _, b := range budgets {
		budgetIDs = append(budgetIDs, b.ID)
	}
	lines, err := st.ListTemplateLines(ctx, templateIDs)
	if err != nil {
		t.Fatalf("list template lines: %v", err)
	}
	budgetLines, err := st.ListBudgetLines(ctx, budgetIDs)
	if err != nil {
		t.Fatalf("list budget lines: %v", err)
	}
	txs, err := st.ListTransactions(ctx, budgetIDs)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return Counts{
		Templates:      len(templates),
		TemplateLines:  len(lines),
		MonthlyBudgets: len(budgets),
		BudgetLines:    len(budgetLines),
		Transactions:   len(txs),
		SavingsGoals:   len(goals),
	}
}

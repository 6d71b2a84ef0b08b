package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"bilancio/internal/core"
)

// Store is an in-memory implementation of store.Store. It preserves
// insertion order per collection, which stands in for creation order.
// Used as the default backend and as the test double for the engine.
type Store struct {
	mu           sync.Mutex
	templates    []core.Template
	lines        []core.TemplateLine
	budgets      []core.MonthlyBudget
	budgetLines  []core.BudgetLine
	transactions []core.Transaction
	goals        []core.SavingsGoal
}

func New() *Store {
	return &Store{}
}

func (s *Store) ListTemplates(_ context.Context, ownerID string) ([]core.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Template
	for _, t := range s.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ListTemplateLines(_ context.Context, templateIDs []string) ([]core.TemplateLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := toSet(templateIDs)
	var out []core.TemplateLine
	for _, l := range s.lines {
		if _, ok := want[l.TemplateID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) ListBudgets(_ context.Context, ownerID string) ([]core.MonthlyBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.MonthlyBudget
	for _, b := range s.budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return out, nil
}

func (s *Store) ListBudgetLines(_ context.Context, budgetIDs []string) ([]core.BudgetLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := toSet(budgetIDs)
	var out []core.BudgetLine
	for _, l := range s.budgetLines {
		if _, ok := want[l.BudgetID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, budgetIDs []string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := toSet(budgetIDs)
	var out []core.Transaction
	for _, x := range s.transactions {
		if _, ok := want[x.BudgetID]; ok {
			out = append(out, x)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (s *Store) ListSavingsGoals(_ context.Context, ownerID string) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.SavingsGoal
	for _, g := range s.goals {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) UpsertTemplate(_ context.Context, t core.Template) (core.Template, error) {
	if err := t.Validate(); err != nil {
		return core.Template{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	} else {
		for i := range s.templates {
			if s.templates[i].ID == t.ID {
				s.templates[i] = t
				return t, nil
			}
		}
	}
	s.templates = append(s.templates, t)
	return t, nil
}

func (s *Store) UpsertTemplateLine(_ context.Context, l core.TemplateLine) (core.TemplateLine, error) {
	if err := l.Validate(); err != nil {
		return core.TemplateLine{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else {
		for i := range s.lines {
			if s.lines[i].ID == l.ID {
				s.lines[i] = l
				return l, nil
			}
		}
	}
	s.lines = append(s.lines, l)
	return l, nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.MonthlyBudget) (core.MonthlyBudget, error) {
	if err := b.Validate(); err != nil {
		return core.MonthlyBudget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	} else {
		for i := range s.budgets {
			if s.budgets[i].ID == b.ID {
				s.budgets[i] = b
				return b, nil
			}
		}
	}
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) UpsertBudgetLine(_ context.Context, l core.BudgetLine) (core.BudgetLine, error) {
	if err := l.Validate(); err != nil {
		return core.BudgetLine{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else {
		for i := range s.budgetLines {
			if s.budgetLines[i].ID == l.ID {
				s.budgetLines[i] = l
				return l, nil
			}
		}
	}
	s.budgetLines = append(s.budgetLines, l)
	return l, nil
}

func (s *Store) UpsertTransaction(_ context.Context, x core.Transaction) (core.Transaction, error) {
	if err := x.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if x.ID == "" {
		x.ID = uuid.NewString()
	} else {
		for i := range s.transactions {
			if s.transactions[i].ID == x.ID {
				s.transactions[i] = x
				return x, nil
			}
		}
	}
	s.transactions = append(s.transactions, x)
	return x, nil
}

func (s *Store) UpsertSavingsGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	} else {
		for i := range s.goals {
			if s.goals[i].ID == g.ID {
				s.goals[i] = g
				return g, nil
			}
		}
	}
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) DeleteTransactions(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedBudgetIDs(ownerID)
	kept := s.transactions[:0]
	for _, x := range s.transactions {
		if _, ok := owned[x.BudgetID]; !ok {
			kept = append(kept, x)
		}
	}
	s.transactions = kept
	return nil
}

func (s *Store) DeleteBudgetLines(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedBudgetIDs(ownerID)
	kept := s.budgetLines[:0]
	for _, l := range s.budgetLines {
		if _, ok := owned[l.BudgetID]; !ok {
			kept = append(kept, l)
		}
	}
	s.budgetLines = kept
	return nil
}

func (s *Store) DeleteBudgets(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.budgets[:0]
	for _, b := range s.budgets {
		if b.OwnerID != ownerID {
			kept = append(kept, b)
		}
	}
	s.budgets = kept
	return nil
}

func (s *Store) DeleteTemplateLines(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedTemplateIDs(ownerID)
	kept := s.lines[:0]
	for _, l := range s.lines {
		if _, ok := owned[l.TemplateID]; !ok {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	return nil
}

func (s *Store) DeleteTemplates(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.templates[:0]
	for _, t := range s.templates {
		if t.OwnerID != ownerID {
			kept = append(kept, t)
		}
	}
	s.templates = kept
	return nil
}

func (s *Store) DeleteSavingsGoals(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.goals[:0]
	for _, g := range s.goals {
		if g.OwnerID != ownerID {
			kept = append(kept, g)
		}
	}
	s.goals = kept
	return nil
}

// ownedBudgetIDs must be called with s.mu held.
func (s *Store) ownedBudgetIDs(ownerID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, b := range s.budgets {
		if b.OwnerID == ownerID {
			out[b.ID] = struct{}{}
		}
	}
	return out
}

// ownedTemplateIDs must be called with s.mu held.
func (s *Store) ownedTemplateIDs(ownerID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range s.templates {
		if t.OwnerID == ownerID {
			out[t.ID] = struct{}{}
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sortBudgets(budgets []core.MonthlyBudget) {
	sort.SliceStable(budgets, func(i, j int) bool {
		if budgets[i].Year != budgets[j].Year {
			return budgets[i].Year < budgets[j].Year
		}
		return budgets[i].Month < budgets[j].Month
	})
}

func sortTransactions(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].TransactionDate.Before(txs[j].TransactionDate)
	})
}

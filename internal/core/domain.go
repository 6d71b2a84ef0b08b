package core

import (
	"errors"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindSaving  Kind = "saving"
)

const (
	RecurrenceFixed    Recurrence = "fixed"
	RecurrenceVariable Recurrence = "variable"
	RecurrenceOneOff   Recurrence = "one_off"
)

const (
	PriorityHigh   GoalPriority = "HIGH"
	PriorityMedium GoalPriority = "MEDIUM"
	PriorityLow    GoalPriority = "LOW"
)

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalPaused    GoalStatus = "PAUSED"
)

type (
	// Kind classifies a budget or template line.
	Kind string

	// Recurrence describes how a line repeats across months.
	Recurrence string

	GoalPriority string
	GoalStatus   string

	// Template is the reusable blueprint a monthly budget is created from.
	Template struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		IsDefault   bool   `json:"is_default"`
		OwnerID     string `json:"user_id"`
	}

	// TemplateLine is a single income/expense/saving row inside a template.
	TemplateLine struct {
		ID          string     `json:"id"`
		TemplateID  string     `json:"template_id"`
		Name        string     `json:"name"`
		Amount      float64    `json:"amount"`
		Kind        Kind       `json:"kind"`
		Recurrence  Recurrence `json:"recurrence"`
		Description string     `json:"description,omitempty"`
	}

	// MonthlyBudget is the budget instance for one calendar month.
	// OwnerID is nullable at the schema level but required for ownership
	// checks; the import boundary always rewrites it to the caller.
	MonthlyBudget struct {
		ID          string `json:"id"`
		TemplateID  string `json:"template_id"`
		Month       int    `json:"month"`
		Year        int    `json:"year"`
		Description string `json:"description"`
		OwnerID     string `json:"user_id,omitempty"`
	}

	// BudgetLine is a row of a monthly budget. TemplateLineID and
	// SavingsGoalID are optional references and stay nil when absent.
	BudgetLine struct {
		ID                 string     `json:"id"`
		BudgetID           string     `json:"budget_id"`
		Name               string     `json:"name"`
		Amount             float64    `json:"amount"`
		Kind               Kind       `json:"kind"`
		Recurrence         Recurrence `json:"recurrence"`
		TemplateLineID     *string    `json:"template_line_id,omitempty"`
		SavingsGoalID      *string    `json:"savings_goal_id,omitempty"`
		IsManuallyAdjusted bool       `json:"is_manually_adjusted"`
	}

	// Transaction is a concrete movement recorded against a monthly budget.
	Transaction struct {
		ID              string    `json:"id"`
		BudgetID        string    `json:"budget_id"`
		Name            string    `json:"name"`
		Amount          float64   `json:"amount"`
		Kind            Kind      `json:"kind"`
		TransactionDate time.Time `json:"transaction_date"`
		Category        string    `json:"category,omitempty"`
		IsOutOfBudget   bool      `json:"is_out_of_budget"`
	}

	// SavingsGoal is a root entity with no references into other imported data.
	SavingsGoal struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		TargetAmount float64      `json:"target_amount"`
		TargetDate   time.Time    `json:"target_date"`
		Priority     GoalPriority `json:"priority"`
		Status       GoalStatus   `json:"status"`
		OwnerID      string       `json:"user_id"`
	}
)

var (
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyOwner        = errors.New("empty owner id")
	ErrMissingReference  = errors.New("missing parent reference")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidYear       = errors.New("invalid year")
)

func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindSaving:
		return true
	}
	return false
}

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceFixed, RecurrenceVariable, RecurrenceOneOff:
		return true
	}
	return false
}

func (p GoalPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

func (t Template) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	return nil
}

func (l TemplateLine) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	if l.TemplateID == "" {
		return ErrMissingReference
	}
	if !l.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !l.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	return nil
}

func (b MonthlyBudget) Validate() error {
	if b.TemplateID == "" {
		return ErrMissingReference
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return ErrInvalidYear
	}
	return nil
}

func (l BudgetLine) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	if l.BudgetID == "" {
		return ErrMissingReference
	}
	if !l.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !l.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	return nil
}

func (x Transaction) Validate() error {
	if x.Name == "" {
		return ErrEmptyName
	}
	if x.BudgetID == "" {
		return ErrMissingReference
	}
	if !x.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if g.Name == "" {
		return ErrEmptyName
	}
	if !g.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !g.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

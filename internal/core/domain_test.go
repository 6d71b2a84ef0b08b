package core

import (
	"testing"
	"time"
)

func TestKindIsValid(t *testing.T) {
	cases := []struct {
		k  Kind
		ok bool
	}{
		{KindIncome, true},
		{KindExpense, true},
		{KindSaving, true},
		{Kind("savings"), false},
		{Kind(""), false},
	}
	for i, tc := range cases {
		if got := tc.k.IsValid(); got != tc.ok {
			t.Fatalf("case %d: Kind(%q).IsValid() = %v, want %v", i, tc.k, got, tc.ok)
		}
	}
}

func TestRecurrenceIsValid(t *testing.T) {
	cases := []struct {
		r  Recurrence
		ok bool
	}{
		{RecurrenceFixed, true},
		{RecurrenceVariable, true},
		{RecurrenceOneOff, true},
		{Recurrence("one-off"), false},
	}
	for i, tc := range cases {
		if got := tc.r.IsValid(); got != tc.ok {
			t.Fatalf("case %d: Recurrence(%q).IsValid() = %v, want %v", i, tc.r, got, tc.ok)
		}
	}
}

func TestTemplateLineValidate(t *testing.T) {
	good := TemplateLine{
		ID:         "b7a9e2c4-3f1d-4e8a-9b0c-1d2e3f4a5b6c",
		TemplateID: "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b",
		Name:       "Rent",
		Amount:     950,
		Kind:       KindExpense,
		Recurrence: RecurrenceFixed,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*TemplateLine)
		wantErr error
	}{
		{"empty name", func(l *TemplateLine) { l.Name = "" }, ErrEmptyName},
		{"no template", func(l *TemplateLine) { l.TemplateID = "" }, ErrMissingReference},
		{"bad kind", func(l *TemplateLine) { l.Kind = "spending" }, ErrInvalidKind},
		{"bad recurrence", func(l *TemplateLine) { l.Recurrence = "weekly" }, ErrInvalidRecurrence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := good
			tt.mutate(&line)
			if err := line.Validate(); err != tt.wantErr {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMonthlyBudgetValidate(t *testing.T) {
	good := MonthlyBudget{
		ID:         "aa0e8b5c-0000-4000-8000-000000000001",
		TemplateID: "aa0e8b5c-0000-4000-8000-000000000002",
		Month:      3,
		Year:       2025,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Month = 13
	if err := bad.Validate(); err != ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}

	bad = good
	bad.TemplateID = ""
	if err := bad.Validate(); err != ErrMissingReference {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	good := SavingsGoal{
		ID:           "aa0e8b5c-0000-4000-8000-000000000003",
		Name:         "Emergency fund",
		TargetAmount: 5000,
		TargetDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Priority:     PriorityHigh,
		Status:       GoalActive,
		OwnerID:      "aa0e8b5c-0000-4000-8000-00000000000f",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Priority = "URGENT"
	if err := bad.Validate(); err != ErrInvalidPriority {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	bad = good
	bad.Status = "DONE"
	if err := bad.Validate(); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

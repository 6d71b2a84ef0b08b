package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validator checks an untyped document against the versioned snapshot
// shape. Parse is the only way untrusted bytes become a *Snapshot, so
// downstream code never handles an unvalidated document.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// document mirrors Snapshot with pointer sub-objects so missing "data" or
// "metadata" keys are distinguishable from empty ones.
type document struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	UserID     string    `json:"user_id"`
	Data       *Data     `json:"data"`
	Metadata   *Metadata `json:"metadata"`
}

// Parse decodes and validates raw JSON, returning a typed snapshot.
func (v *Validator) Parse(raw []byte) (*Snapshot, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%w: missing data object", ErrInvalidDocument)
	}
	if doc.Metadata == nil {
		return nil, fmt.Errorf("%w: missing metadata object", ErrInvalidDocument)
	}
	snap := &Snapshot{
		Version:    doc.Version,
		ExportedAt: doc.ExportedAt,
		UserID:     doc.UserID,
		Data:       *doc.Data,
		Metadata:   *doc.Metadata,
	}
	if err := v.Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate enforces the snapshot contract on an already-typed document:
// exact version literal, UUID-shaped identifiers, enum membership, and
// resolvable intra-document shapes.
func (v *Validator) Validate(s *Snapshot) error {
	if s.Version != Version {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, s.Version)
	}
	if err := checkUUID("user_id", s.UserID); err != nil {
		return err
	}

	for i, t := range s.Data.Templates {
		if err := checkUUID(fmt.Sprintf("templates[%d].id", i), t.ID); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: templates[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	for i, l := range s.Data.TemplateLines {
		if err := checkUUID(fmt.Sprintf("template_lines[%d].id", i), l.ID); err != nil {
			return err
		}
		if err := checkUUID(fmt.Sprintf("template_lines[%d].template_id", i), l.TemplateID); err != nil {
			return err
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: template_lines[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	for i, b := range s.Data.MonthlyBudgets {
		if err := checkUUID(fmt.Sprintf("monthly_budgets[%d].id", i), b.ID); err != nil {
			return err
		}
		if err := checkUUID(fmt.Sprintf("monthly_budgets[%d].template_id", i), b.TemplateID); err != nil {
			return err
		}
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w: monthly_budgets[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	for i, l := range s.Data.BudgetLines {
		if err := checkUUID(fmt.Sprintf("budget_lines[%d].id", i), l.ID); err != nil {
			return err
		}
		if err := checkUUID(fmt.Sprintf("budget_lines[%d].budget_id", i), l.BudgetID); err != nil {
			return err
		}
		if l.TemplateLineID != nil {
			if err := checkUUID(fmt.Sprintf("budget_lines[%d].template_line_id", i), *l.TemplateLineID); err != nil {
				return err
			}
		}
		if l.SavingsGoalID != nil {
			if err := checkUUID(fmt.Sprintf("budget_lines[%d].savings_goal_id", i), *l.SavingsGoalID); err != nil {
				return err
			}
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: budget_lines[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	for i, x := range s.Data.Transactions {
		if err := checkUUID(fmt.Sprintf("transactions[%d].id", i), x.ID); err != nil {
			return err
		}
		if err := checkUUID(fmt.Sprintf("transactions[%d].budget_id", i), x.BudgetID); err != nil {
			return err
		}
		if err := x.Validate(); err != nil {
			return fmt.Errorf("%w: transactions[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	for i, g := range s.Data.SavingsGoals {
		if err := checkUUID(fmt.Sprintf("savings_goals[%d].id", i), g.ID); err != nil {
			return err
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: savings_goals[%d]: %v", ErrInvalidDocument, i, err)
		}
	}
	return nil
}

func checkUUID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%w: %s: not a UUID: %q", ErrInvalidDocument, field, value)
	}
	return nil
}

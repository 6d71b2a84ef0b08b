// Package snapshot implements the export/import engine for a user's full
// budgeting dataset: a versioned portable document, a schema validator, and
// an import orchestrator that remaps cross-entity references whose ids are
// not guaranteed to survive the round trip.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"bilancio/internal/core"
)

// Version is the single supported snapshot document version.
const Version = "1.0.0"

var (
	ErrExportFailed       = errors.New("snapshot export failed")
	ErrInvalidDocument    = errors.New("invalid snapshot document")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrInvalidMode        = errors.New("invalid import mode")
)

type (
	// Snapshot is the versioned envelope holding one owner's exportable
	// dataset plus summary metadata.
	Snapshot struct {
		Version    string    `json:"version"`
		ExportedAt time.Time `json:"exported_at"`
		UserID     string    `json:"user_id"`
		Data       Data      `json:"data"`
		Metadata   Metadata  `json:"metadata"`
	}

	Data struct {
		Templates      []core.Template      `json:"templates"`
		TemplateLines  []core.TemplateLine  `json:"template_lines"`
		MonthlyBudgets []core.MonthlyBudget `json:"monthly_budgets"`
		BudgetLines    []core.BudgetLine    `json:"budget_lines"`
		Transactions   []core.Transaction   `json:"transactions"`
		SavingsGoals   []core.SavingsGoal   `json:"savings_goals"`
	}

	Metadata struct {
		TotalTemplates    int       `json:"total_templates"`
		TotalBudgets      int       `json:"total_budgets"`
		TotalTransactions int       `json:"total_transactions"`
		TotalSavingsGoals int       `json:"total_savings_goals"`
		DateRange         DateRange `json:"date_range"`
	}

	// DateRange spans the owner's budgets, rendered as ISO calendar days
	// at day 1 of the first and last budget month. Both fields are null
	// when the owner has no budgets.
	DateRange struct {
		OldestBudget *string `json:"oldest_budget"`
		NewestBudget *string `json:"newest_budget"`
	}
)

// Mode selects the import strategy.
type Mode string

const (
	// ModeReplace wipes the owner's existing data, then recreates the
	// snapshot's records under their original ids.
	ModeReplace Mode = "replace"
	// ModeMerge upserts by original id without wiping anything first.
	ModeMerge Mode = "merge"
	// ModeAppend always inserts under freshly assigned ids, so it never
	// collides with existing data. Semantic duplicates are accepted.
	ModeAppend Mode = "append"
)

// ParseMode maps a request string to a Mode. An empty string selects the
// default, ModeReplace.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, ModeMerge, ModeAppend:
		return Mode(s), nil
	case "":
		return ModeReplace, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Options controls a single import call.
type Options struct {
	Mode   Mode
	DryRun bool
}

// Counts tracks successfully imported records per entity type.
type Counts struct {
	Templates      int `json:"templates"`
	TemplateLines  int `json:"template_lines"`
	MonthlyBudgets int `json:"monthly_budgets"`
	BudgetLines    int `json:"budget_lines"`
	Transactions   int `json:"transactions"`
	SavingsGoals   int `json:"savings_goals"`
}

// Result is what every import call returns to the caller. Per-record
// persistence failures land in Errors and never abort the batch; Success
// is derived at the end from the error list being empty.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Imported Counts   `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

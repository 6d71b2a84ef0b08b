package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/store"
)

const (
	msgCompleted  = "import completed successfully"
	msgWithErrors = "import completed with errors"
	msgDryRun     = "dry run completed, no changes applied"
)

// Importer drives the import algorithm: mode dispatch, dry-run
// short-circuit, the fixed per-entity-type processing order, and result
// accumulation. Writes are strictly sequential because every entity type
// depends on remapper state built by the previous one.
type Importer struct {
	store   store.Store
	planner *DeletionPlanner
}

func NewImporter(st store.Store) *Importer {
	return &Importer{
		store:   st,
		planner: NewDeletionPlanner(st),
	}
}

// Import applies snapshot ownership and data to ownerID's dataset. It
// returns an error only for pre-mutation aborts (version mismatch,
// unknown mode); per-record failures are reported inside the Result and
// never abort the batch. There is no cross-record transaction: a failure
// partway through leaves the successfully imported records in place.
func (im *Importer) Import(ctx context.Context, ownerID string, snap *Snapshot, opts Options) (*Result, error) {
	if snap.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snap.Version)
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeReplace
	}
	switch mode {
	case ModeReplace, ModeMerge, ModeAppend:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if opts.DryRun {
		slog.InfoContext(ctx, "Dry run, skipping deletion and writes",
			"owner_id", ownerID, "mode", mode)
		return &Result{
			Success:  true,
			Message:  msgDryRun,
			Imported: snapshotCounts(snap),
		}, nil
	}

	res := &Result{}
	if mode == ModeReplace {
		res.Warnings = im.planner.DeleteAll(ctx, ownerID)
	}

	// All imported data belongs to the caller, regardless of what the
	// document claims. Applied once here, not per entity type.
	data := assignOwner(snap.Data, ownerID)
	remap := NewRemapper()
	fresh := mode == ModeAppend

	for _, g := range data.SavingsGoals {
		rec := g
		if fresh {
			rec.ID = ""
		}
		stored, err := im.store.UpsertSavingsGoal(ctx, rec)
		if err != nil {
			res.recordError(ctx, "savings goal", g.Name, err)
			continue
		}
		remap.Goals.Record(g.ID, stored.ID)
		res.Imported.SavingsGoals++
	}

	for _, t := range data.Templates {
		rec := t
		if fresh {
			rec.ID = ""
		}
		stored, err := im.store.UpsertTemplate(ctx, rec)
		if err != nil {
			res.recordError(ctx, "template", t.Name, err)
			continue
		}
		remap.Templates.Record(t.ID, stored.ID)
		res.Imported.Templates++
	}

	for _, l := range data.TemplateLines {
		rec := l
		if fresh {
			rec.ID = ""
		}
		rec.TemplateID = res.resolve(ctx, &remap.Templates, "template", l.TemplateID, mode)
		stored, err := im.store.UpsertTemplateLine(ctx, rec)
		if err != nil {
			res.recordError(ctx, "template line", l.Name, err)
			continue
		}
		remap.TemplateLines.Record(l.ID, stored.ID)
		res.Imported.TemplateLines++
	}

	for _, b := range data.MonthlyBudgets {
		rec := b
		if fresh {
			rec.ID = ""
		}
		rec.TemplateID = res.resolve(ctx, &remap.Templates, "template", b.TemplateID, mode)
		stored, err := im.store.UpsertBudget(ctx, rec)
		if err != nil {
			res.recordError(ctx, "monthly budget", fmt.Sprintf("%04d-%02d", b.Year, b.Month), err)
			continue
		}
		remap.Budgets.Record(b.ID, stored.ID)
		res.Imported.MonthlyBudgets++
	}

	// Nothing downstream references budget lines or transactions, so no
	// mappings are recorded for them.
	for _, l := range data.BudgetLines {
		rec := l
		if fresh {
			rec.ID = ""
		}
		rec.BudgetID = res.resolve(ctx, &remap.Budgets, "budget", l.BudgetID, mode)
		if l.TemplateLineID != nil {
			id := res.resolve(ctx, &remap.TemplateLines, "template line", *l.TemplateLineID, mode)
			rec.TemplateLineID = &id
		}
		if l.SavingsGoalID != nil {
			id := res.resolve(ctx, &remap.Goals, "savings goal", *l.SavingsGoalID, mode)
			rec.SavingsGoalID = &id
		}
		if _, err := im.store.UpsertBudgetLine(ctx, rec); err != nil {
			res.recordError(ctx, "budget line", l.Name, err)
			continue
		}
		res.Imported.BudgetLines++
	}

	for _, x := range data.Transactions {
		rec := x
		if fresh {
			rec.ID = ""
		}
		rec.BudgetID = res.resolve(ctx, &remap.Budgets, "budget", x.BudgetID, mode)
		if _, err := im.store.UpsertTransaction(ctx, rec); err != nil {
			res.recordError(ctx, "transaction", x.Name, err)
			continue
		}
		res.Imported.Transactions++
	}

	res.Success = len(res.Errors) == 0
	if res.Success {
		res.Message = msgCompleted
	} else {
		res.Message = msgWithErrors
	}

	slog.InfoContext(ctx, "Import finished",
		"owner_id", ownerID,
		"mode", mode,
		"success", res.Success,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings))

	return res, nil
}

// resolve translates a foreign key through one id map. Unmapped ids pass
// through unchanged; in append mode that means the reference points at
// data that was never part of this import, so it is surfaced as a warning.
func (r *Result) resolve(ctx context.Context, m *IDMap, kind, oldID string, mode Mode) string {
	resolution := m.Resolve(oldID)
	if !resolution.Mapped && mode == ModeAppend {
		slog.WarnContext(ctx, "Unmapped reference kept as-is", "kind", kind, "id", oldID)
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%s reference %s was not part of this import, keeping original id", kind, oldID))
	}
	return resolution.ID
}

func (r *Result) recordError(ctx context.Context, entity, label string, err error) {
	slog.WarnContext(ctx, "Record import failed, continuing",
		"entity", entity, "label", label, "error", err)
	r.Errors = append(r.Errors, fmt.Sprintf("%s %q: %v", entity, label, err))
}

func assignOwner(d Data, ownerID string) Data {
	for i := range d.Templates {
		d.Templates[i].OwnerID = ownerID
	}
	for i := range d.MonthlyBudgets {
		d.MonthlyBudgets[i].OwnerID = ownerID
	}
	for i := range d.SavingsGoals {
		d.SavingsGoals[i].OwnerID = ownerID
	}
	return d
}

func snapshotCounts(snap *Snapshot) Counts {
	return Counts{
		Templates:      len(snap.Data.Templates),
		TemplateLines:  len(snap.Data.TemplateLines),
		MonthlyBudgets: len(snap.Data.MonthlyBudgets),
		BudgetLines:    len(snap.Data.BudgetLines),
		Transactions:   len(snap.Data.Transactions),
		SavingsGoals:   len(snap.Data.SavingsGoals),
	}
}

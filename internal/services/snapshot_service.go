package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/cache"
	"bilancio/internal/snapshot"
	"bilancio/internal/store"
)

// MaxDocumentBytes caps inbound snapshot documents at 3 MB.
const MaxDocumentBytes = 3 << 20

var ErrDocumentTooLarge = errors.New("snapshot document exceeds size limit")

// EventPublisher is the slice of the AMQP client the service uses. A nil
// publisher disables events; publish failures are logged and never fail
// the operation.
type EventPublisher interface {
	PublishSnapshotExported(ctx context.Context, msg *amqp.SnapshotExportedMessage) error
	PublishSnapshotImported(ctx context.Context, msg *amqp.SnapshotImportedMessage) error
}

// SnapshotService is the application boundary around the snapshot engine.
// It enforces the document size cap, turns untrusted bytes into validated
// snapshots, pins ownership to the authenticated caller, and emits
// best-effort events after successful operations.
type SnapshotService struct {
	store     store.Store
	builder   *snapshot.Builder
	importer  *snapshot.Importer
	validator *snapshot.Validator
	events    EventPublisher
	exports   *cache.LRU[*snapshot.Snapshot]
}

// exportCacheTTL bounds how stale a cached export may be when the store
// is mutated outside this process.
const exportCacheTTL = 30 * time.Second

func NewSnapshotService(st store.Store, events EventPublisher) *SnapshotService {
	return &SnapshotService{
		store:     st,
		builder:   snapshot.NewBuilder(st),
		importer:  snapshot.NewImporter(st),
		validator: snapshot.NewValidator(),
		events:    events,
		exports:   cache.NewLRU[*snapshot.Snapshot](64, exportCacheTTL),
	}
}

// Export assembles the owner's full snapshot. Results are cached per
// owner until the next import invalidates them.
func (s *SnapshotService) Export(ctx context.Context, ownerID string) (*snapshot.Snapshot, error) {
	if snap, ok := s.exports.Get(ownerID); ok {
		return snap, nil
	}

	snap, err := s.builder.Build(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.exports.Set(ownerID, snap)

	if s.events != nil {
		msg := amqp.NewSnapshotExportedMessage(ownerID,
			snap.Metadata.TotalTemplates,
			snap.Metadata.TotalBudgets,
			snap.Metadata.TotalTransactions,
			snap.Metadata.TotalSavingsGoals)
		if err := s.events.PublishSnapshotExported(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish snapshot exported event",
				"owner_id", ownerID, "error", err)
		}
	}

	return snap, nil
}

// ImportDocument validates a raw JSON document and applies it to the
// owner's dataset. The document's user_id is always overwritten with
// ownerID before any processing, whatever it originally claimed.
func (s *SnapshotService) ImportDocument(ctx context.Context, ownerID string, doc []byte, opts snapshot.Options) (*snapshot.Result, error) {
	if len(doc) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(doc))
	}

	snap, err := s.validator.Parse(doc)
	if err != nil {
		return nil, err
	}
	snap.UserID = ownerID

	if opts.Mode == "" {
		opts.Mode = snapshot.ModeReplace
	}
	res, err := s.importer.Import(ctx, ownerID, snap, opts)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		s.exports.Delete(ownerID)
	}

	if s.events != nil && !opts.DryRun {
		total := res.Imported.Templates + res.Imported.TemplateLines +
			res.Imported.MonthlyBudgets + res.Imported.BudgetLines +
			res.Imported.Transactions + res.Imported.SavingsGoals
		msg := amqp.NewSnapshotImportedMessage(ownerID, string(opts.Mode), total,
			len(res.Errors), len(res.Warnings))
		if err := s.events.PublishSnapshotImported(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish snapshot imported event",
				"owner_id", ownerID, "error", err)
		}
	}

	return res, nil
}

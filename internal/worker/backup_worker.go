// Package worker contains the backup worker. It listens for
// snapshot-imported events and writes a fresh export of the owner's
// dataset to the backup directory, so every import leaves a durable
// record of the resulting state.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/snapshot"
)

// Exporter assembles an owner's snapshot. Satisfied by snapshot.Builder.
// The worker reads the store directly so backups never see a cached export.
type Exporter interface {
	Build(ctx context.Context, ownerID string) (*snapshot.Snapshot, error)
}

// BackupWorker writes post-import snapshot backups.
type BackupWorker struct {
	exporter Exporter
	dir      string
	now      func() time.Time
}

func NewBackupWorker(exporter Exporter, dir string) *BackupWorker {
	return &BackupWorker{
		exporter: exporter,
		dir:      dir,
		now:      time.Now,
	}
}

// HandleImportedEvent exports the owner's current dataset and writes it
// under the backup directory as <owner>-<timestamp>.json.
func (w *BackupWorker) HandleImportedEvent(ctx context.Context, msg *amqp.SnapshotImportedMessage) error {
	slog.InfoContext(ctx, "Processing snapshot imported event",
		"owner_id", msg.OwnerID,
		"mode", msg.Mode,
		"imported", msg.Imported)

	snap, err := w.exporter.Build(ctx, msg.OwnerID)
	if err != nil {
		return fmt.Errorf("export snapshot for backup: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", msg.OwnerID, w.now().UTC().Format("20060102T150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}

	slog.InfoContext(ctx, "Wrote snapshot backup",
		"owner_id", msg.OwnerID,
		"file", path,
		"bytes", len(data))
	return nil
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/snapshot"
	"bilancio/internal/store/memory"
)

const owner = "11111111-1111-4111-8111-111111111111"

func seededBuilder(t *testing.T) *snapshot.Builder {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	tpl, err := st.UpsertTemplate(ctx, core.Template{Name: "Base", OwnerID: owner})
	if err != nil {
		t.Fatalf("seed template: %v", err)
	}
	if _, err := st.UpsertBudget(ctx, core.MonthlyBudget{
		TemplateID: tpl.ID, Month: 5, Year: 2025, OwnerID: owner,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	return snapshot.NewBuilder(st)
}

func TestBackupWorkerWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	w := NewBackupWorker(seededBuilder(t), dir)
	w.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC) }

	msg := amqp.NewSnapshotImportedMessage(owner, "replace", 2, 0, 0)
	if err := w.HandleImportedEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleImportedEvent: %v", err)
	}

	path := filepath.Join(dir, owner+"-20250601T123000.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if snap.UserID != owner {
		t.Errorf("user_id = %q, want %q", snap.UserID, owner)
	}
	if snap.Metadata.TotalTemplates != 1 || snap.Metadata.TotalBudgets != 1 {
		t.Errorf("metadata = %+v, want 1 template and 1 budget", snap.Metadata)
	}
}

func TestBackupWorkerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	w := NewBackupWorker(seededBuilder(t), dir)

	msg := amqp.NewSnapshotImportedMessage(owner, "merge", 1, 0, 0)
	if err := w.HandleImportedEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleImportedEvent: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("backup dir has %d entries, want 1", len(entries))
	}
}

type failingExporter struct{}

func (failingExporter) Build(context.Context, string) (*snapshot.Snapshot, error) {
	return nil, errors.New("store unavailable")
}

func TestBackupWorkerPropagatesExportFailure(t *testing.T) {
	w := NewBackupWorker(failingExporter{}, t.TempDir())

	msg := amqp.NewSnapshotImportedMessage(owner, "replace", 1, 0, 0)
	if err := w.HandleImportedEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error when export fails")
	}
}

package amqp

import (
	"testing"
	"time"
)

func TestSnapshotImportedMessageJSON(t *testing.T) {
	msg := NewSnapshotImportedMessage("11111111-1111-4111-8111-111111111111", "replace", 12, 1, 2)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := SnapshotImportedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.OwnerID != msg.OwnerID || decoded.Mode != "replace" ||
		decoded.Imported != 12 || decoded.Errors != 1 || decoded.Warnings != 2 {
		t.Errorf("decoded = %+v, want %+v", decoded, msg)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp should survive the round trip")
	}
	if decoded.Event != EventSnapshotImported {
		t.Errorf("event = %q, want %q", decoded.Event, EventSnapshotImported)
	}
}

func TestSnapshotImportedMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := SnapshotImportedMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestNewSnapshotExportedMessage(t *testing.T) {
	before := time.Now()
	msg := NewSnapshotExportedMessage("11111111-1111-4111-8111-111111111111", 2, 3, 4, 1)

	if msg.Templates != 2 || msg.Budgets != 3 || msg.Transactions != 4 || msg.SavingsGoals != 1 {
		t.Errorf("counts = %+v", msg)
	}
	if msg.Timestamp.Before(before) {
		t.Errorf("timestamp %v predates construction", msg.Timestamp)
	}
	if msg.Event != EventSnapshotExported {
		t.Errorf("event = %q, want %q", msg.Event, EventSnapshotExported)
	}
}

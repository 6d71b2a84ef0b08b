package amqp

import (
	"encoding/json"
	"time"
)

// Event discriminators. Both message types share one queue, consumers
// dispatch on the event field.
const (
	EventSnapshotExported = "snapshot_exported"
	EventSnapshotImported = "snapshot_imported"
)

// SnapshotExportedMessage announces that an owner's snapshot was assembled.
// Consumers interested in the document itself fetch it from the owner's
// store; the message stays lightweight on purpose.
type SnapshotExportedMessage struct {
	Event        string    `json:"event"`
	OwnerID      string    `json:"owner_id"`
	Templates    int       `json:"templates"`
	Budgets      int       `json:"budgets"`
	Transactions int       `json:"transactions"`
	SavingsGoals int       `json:"savings_goals"`
	Timestamp    time.Time `json:"timestamp"`
}

// SnapshotImportedMessage announces a completed (non-dry-run) import.
type SnapshotImportedMessage struct {
	Event     string    `json:"event"`
	OwnerID   string    `json:"owner_id"`
	Mode      string    `json:"mode"`
	Imported  int       `json:"imported"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotExportedMessage(ownerID string, templates, budgets, transactions, goals int) *SnapshotExportedMessage {
	return &SnapshotExportedMessage{
		Event:        EventSnapshotExported,
		OwnerID:      ownerID,
		Templates:    templates,
		Budgets:      budgets,
		Transactions: transactions,
		SavingsGoals: goals,
		Timestamp:    time.Now(),
	}
}

func NewSnapshotImportedMessage(ownerID, mode string, imported, errs, warnings int) *SnapshotImportedMessage {
	return &SnapshotImportedMessage{
		Event:     EventSnapshotImported,
		OwnerID:   ownerID,
		Mode:      mode,
		Imported:  imported,
		Errors:    errs,
		Warnings:  warnings,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotExportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *SnapshotImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotImportedMessageFromJSON(data []byte) (*SnapshotImportedMessage, error) {
	var msg SnapshotImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

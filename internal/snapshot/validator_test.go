package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bilancio/internal/store/memory"
)

func validDocument(t *testing.T) []byte {
	t.Helper()
	st := memory.New()
	seedOwner(t, st, ownerA)
	snap, err := NewBuilder(st).Build(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestValidatorParse(t *testing.T) {
	raw := validDocument(t)

	snap, err := NewValidator().Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.UserID != ownerA {
		t.Errorf("user_id = %q, want %q", snap.UserID, ownerA)
	}
	if len(snap.Data.Templates) != 2 {
		t.Errorf("templates = %d, want 2", len(snap.Data.Templates))
	}
}

func TestValidatorParseRejects(t *testing.T) {
	mutate := func(t *testing.T, f func(m map[string]any)) []byte {
		t.Helper()
		var m map[string]any
		if err := json.Unmarshal(validDocument(t), &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		f(m)
		raw, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return raw
	}

	tests := []struct {
		name    string
		raw     func(t *testing.T) []byte
		wantErr error
	}{
		{
			"not json",
			func(t *testing.T) []byte { return []byte("{nope") },
			ErrInvalidDocument,
		},
		{
			"missing data",
			func(t *testing.T) []byte { return mutate(t, func(m map[string]any) { delete(m, "data") }) },
			ErrInvalidDocument,
		},
		{
			"missing metadata",
			func(t *testing.T) []byte { return mutate(t, func(m map[string]any) { delete(m, "metadata") }) },
			ErrInvalidDocument,
		},
		{
			"wrong version",
			func(t *testing.T) []byte {
				return mutate(t, func(m map[string]any) { m["version"] = "2.0.0" })
			},
			ErrUnsupportedVersion,
		},
		{
			"non-uuid user id",
			func(t *testing.T) []byte {
				return mutate(t, func(m map[string]any) { m["user_id"] = "user-42" })
			},
			ErrInvalidDocument,
		},
		{
			"non-uuid template id",
			func(t *testing.T) []byte {
				return mutate(t, func(m map[string]any) {
					data := m["data"].(map[string]any)
					tpl := data["templates"].([]any)[0].(map[string]any)
					tpl["id"] = "t1"
				})
			},
			ErrInvalidDocument,
		},
		{
			"invalid kind enum",
			func(t *testing.T) []byte {
				return mutate(t, func(m map[string]any) {
					data := m["data"].(map[string]any)
					line := data["template_lines"].([]any)[0].(map[string]any)
					line["kind"] = "spending"
				})
			},
			ErrInvalidDocument,
		},
		{
			"invalid priority enum",
			func(t *testing.T) []byte {
				return mutate(t, func(m map[string]any) {
					data := m["data"].(map[string]any)
					goal := data["savings_goals"].([]any)[0].(map[string]any)
					goal["priority"] = "URGENT"
				})
			},
			ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValidator().Parse(tt.raw(t))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

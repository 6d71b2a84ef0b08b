package snapshot

// Resolution is the outcome of translating a snapshot id. Mapped is false
// when no translation was recorded; in that case ID carries the original
// id unchanged. The passthrough covers replace/merge re-imports into the
// same store, where ids are expected to already exist.
type Resolution struct {
	ID     string
	Mapped bool
}

// IDMap records old-id to new-id translations for one entity type.
type IDMap struct {
	ids map[string]string
}

func (m *IDMap) Record(oldID, newID string) {
	if m.ids == nil {
		m.ids = make(map[string]string)
	}
	m.ids[oldID] = newID
}

func (m *IDMap) Resolve(oldID string) Resolution {
	if newID, ok := m.ids[oldID]; ok {
		return Resolution{ID: newID, Mapped: true}
	}
	return Resolution{ID: oldID, Mapped: false}
}

func (m *IDMap) Len() int {
	return len(m.ids)
}

// Remapper holds one IDMap per referenced entity type. Budget lines and
// transactions reference all four, so their writes wait until these maps
// are populated by the earlier import steps.
type Remapper struct {
	Templates     IDMap
	TemplateLines IDMap
	Budgets       IDMap
	Goals         IDMap
}

func NewRemapper() *Remapper {
	return &Remapper{}
}

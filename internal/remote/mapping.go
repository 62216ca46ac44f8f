package remote

import (
	"bytes"
	"encoding/json"

	"github.com/ramanasai/quotes/internal/entry"
)

// Mapping renames remote payload fields onto the entry shape. A remote
// that serves {"title": ..., "body": ...} can be read with
// Mapping{TextField: "title", DefaultCategory: "Server"}.
type Mapping struct {
	TextField     string
	CategoryField string
	// DefaultCategory fills in elements whose category field is missing or
	// null.
	DefaultCategory string
}

func DefaultMapping() Mapping {
	return Mapping{TextField: entry.FieldText, CategoryField: entry.FieldCategory}
}

func (m Mapping) textField() string {
	if m.TextField == "" {
		return entry.FieldText
	}
	return m.TextField
}

func (m Mapping) categoryField() string {
	if m.CategoryField == "" {
		return entry.FieldCategory
	}
	return m.CategoryField
}

// Apply returns copies of objs with the configured fields moved to "text"
// and "category". Elements are not validated here.
func (m Mapping) Apply(objs []map[string]json.RawMessage) []map[string]json.RawMessage {
	out := make([]map[string]json.RawMessage, len(objs))
	tf, cf := m.textField(), m.categoryField()
	for i, obj := range objs {
		mapped := make(map[string]json.RawMessage, len(obj))
		for k, v := range obj {
			mapped[k] = v
		}
		if tf != entry.FieldText {
			delete(mapped, entry.FieldText)
			if v, ok := obj[tf]; ok {
				mapped[entry.FieldText] = v
				delete(mapped, tf)
			}
		}
		if cf != entry.FieldCategory {
			delete(mapped, entry.FieldCategory)
			if v, ok := obj[cf]; ok {
				mapped[entry.FieldCategory] = v
				delete(mapped, cf)
			}
		}
		if v, ok := mapped[entry.FieldCategory]; (!ok || isNull(v)) && m.DefaultCategory != "" {
			b, _ := json.Marshal(m.DefaultCategory)
			mapped[entry.FieldCategory] = b
		}
		out[i] = mapped
	}
	return out
}

// Reverse builds the payload posted for e.
func (m Mapping) Reverse(e entry.Entry) map[string]any {
	payload := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		payload[k] = v
	}
	payload[m.textField()] = e.Text
	payload[m.categoryField()] = e.Category
	if e.ID != "" {
		payload[entry.FieldID] = e.ID
	}
	return payload
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

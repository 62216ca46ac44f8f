// Package entry defines the categorized text record stored by quotes.
package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Reserved field names in the serialized form of an Entry.
const (
	FieldID       = "id"
	FieldText     = "text"
	FieldCategory = "category"
)

// Entry is a categorized short text. Entries are values: updates are modeled
// as remove+add, never in-place mutation.
type Entry struct {
	ID       string
	Text     string
	Category string

	// Extra holds any additional fields seen on import so they survive a
	// later export untouched.
	Extra map[string]json.RawMessage
}

// Key is the (text, category) pair used for equality when IDs are absent
// and for merge deduplication.
type Key struct {
	Text     string
	Category string
}

// New returns an Entry with trimmed text and category. It does not validate.
func New(text, category string) Entry {
	return Entry{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}
}

// NewID synthesizes an identifier for an entry created locally.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (e Entry) Key() Key {
	return Key{Text: e.Text, Category: e.Category}
}

// Identity returns the ID when set, otherwise a value derived from Key.
func (e Entry) Identity() string {
	if e.ID != "" {
		return e.ID
	}
	return "k:" + e.Text + "\x00" + e.Category
}

// Validate reports a *ValidationError when text or category is blank.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return &ValidationError{Field: FieldText, Reason: ReasonBlank}
	}
	if strings.TrimSpace(e.Category) == "" {
		return &ValidationError{Field: FieldCategory, Reason: ReasonBlank}
	}
	return nil
}

// Normalize trims text and category and validates the result.
func Normalize(e Entry) (Entry, error) {
	e.Text = strings.TrimSpace(e.Text)
	e.Category = strings.TrimSpace(e.Category)
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Decode builds an Entry from one decoded JSON object. text and category
// must be present non-blank strings; id may be a string or a number.
func Decode(obj map[string]json.RawMessage) (Entry, error) {
	var e Entry
	var err error
	if e.Text, err = stringField(obj, FieldText); err != nil {
		return Entry{}, err
	}
	if e.Category, err = stringField(obj, FieldCategory); err != nil {
		return Entry{}, err
	}
	if raw, ok := obj[FieldID]; ok && !isNull(raw) {
		id, err := decodeID(raw)
		if err != nil {
			return Entry{}, err
		}
		e.ID = id
	}
	for k, v := range obj {
		switch k {
		case FieldID, FieldText, FieldCategory:
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]json.RawMessage)
		}
		e.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return Normalize(e)
}

func stringField(obj map[string]json.RawMessage, name string) (string, error) {
	raw, ok := obj[name]
	if !ok || isNull(raw) {
		return "", &ValidationError{Field: name, Reason: ReasonMissing}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Field: name, Reason: ReasonNotString}
	}
	return s, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String(), nil
	}
	return "", &ValidationError{Field: FieldID, Reason: ReasonNotString}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// MarshalJSON writes text, category, id (when set) and then the extra
// fields in key order, so the output is stable for a given Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, FieldText, quote(e.Text), true)
	writeField(&buf, FieldCategory, quote(e.Category), false)
	if e.ID != "" {
		writeField(&buf, FieldID, quote(e.ID), false)
	}
	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var compact bytes.Buffer
		if err := json.Compact(&compact, e.Extra[k]); err != nil {
			return nil, fmt.Errorf("extra field %q: %w", k, err)
		}
		writeField(&buf, k, compact.String(), false)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func writeField(buf *bytes.Buffer, name, value string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	key, _ := json.Marshal(name)
	buf.Write(key)
	buf.WriteByte(':')
	buf.WriteString(value)
}

// UnmarshalJSON is the inverse of MarshalJSON and applies Decode's rules.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return &ValidationError{Field: FieldText, Reason: ReasonMissing}
	}
	decoded, err := Decode(obj)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// Filter returns the entries whose category equals category, or all of
// them when category is All.
func Filter(entries []Entry, category string) []Entry {
	if category == All {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// All is the synthetic category meaning "no filter".
const All = "all"

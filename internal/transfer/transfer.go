// Package transfer exports and imports entries as a self-describing JSON
// document: an array of objects each carrying at least "text" and
// "category". Unknown fields ride along untouched.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ramanasai/quotes/internal/entry"
)

// DefaultFileName is used by export when no path is given.
const DefaultFileName = "quotes.json"

var (
	// ErrEmptyInput means the document had no content at all.
	ErrEmptyInput = errors.New("empty document")
	// ErrNotSequence means the top level of the document is not an array.
	ErrNotSequence = errors.New("document is not a sequence of entries")
	// ErrMalformedElement means an array element is not a valid entry.
	ErrMalformedElement = errors.New("malformed entry in document")
)

// MalformedDocumentError rejects a whole document. Kind is ErrNotSequence or
// ErrMalformedElement; for the latter Index and Err locate the problem.
type MalformedDocumentError struct {
	Kind  error
	Index int
	Err   error
}

func (e *MalformedDocumentError) Error() string {
	if e.Kind == ErrMalformedElement {
		return fmt.Sprintf("%v: element %d: %v", e.Kind, e.Index, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *MalformedDocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Export writes entries as an indented JSON array. The output depends only
// on the entries and their order.
func Export(entries []entry.Entry) ([]byte, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}

// Elements checks that doc is a JSON array of objects and returns the raw
// objects. It is shared by Parse and by payload mappers that rename fields
// before validation.
func Elements(doc []byte) ([]map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return nil, ErrEmptyInput
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &MalformedDocumentError{Kind: ErrNotSequence, Err: errors.New("invalid JSON")}
		}
		return nil, &MalformedDocumentError{Kind: ErrNotSequence}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &MalformedDocumentError{Kind: ErrNotSequence, Err: err}
	}
	out := make([]map[string]json.RawMessage, 0, len(raw))
	for i, r := range raw {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(r, &obj); err != nil || obj == nil {
			return nil, &MalformedDocumentError{
				Kind:  ErrMalformedElement,
				Index: i,
				Err:   errors.New("element is not an object"),
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

// Parse validates doc and returns its entries. The first structural
// violation rejects the whole document.
func Parse(doc []byte) ([]entry.Entry, error) {
	objs, err := Elements(doc)
	if err != nil {
		return nil, err
	}
	return Decode(objs)
}

// Decode validates already-split elements.
func Decode(objs []map[string]json.RawMessage) ([]entry.Entry, error) {
	out := make([]entry.Entry, 0, len(objs))
	for i, obj := range objs {
		e, err := entry.Decode(obj)
		if err != nil {
			return nil, &MalformedDocumentError{Kind: ErrMalformedElement, Index: i, Err: err}
		}
		out = append(out, e)
	}
	return out, nil
}

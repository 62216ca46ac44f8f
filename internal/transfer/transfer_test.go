package transfer

import (
	"errors"
	"testing"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/ramanasai/quotes/internal/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTripIsAdditive(t *testing.T) {
	original := []entry.Entry{
		{ID: "a1", Text: "Be yourself; everyone else is already taken.", Category: "Inspiration"},
		{Text: "I'm not arguing, I'm explaining why I'm right.", Category: "Humor"},
	}
	doc, err := Export(original)
	require.NoError(t, err)

	c, errs := collection.New([]entry.Entry{entry.New("already here", "Life")})
	require.Empty(t, errs)

	parsed, err := Parse(doc)
	require.NoError(t, err)
	_, err = c.Append(parsed)
	require.NoError(t, err)

	got := c.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "already here", got[0].Text)
	assert.Equal(t, original, got[1:])
}

func TestExportIsStable(t *testing.T) {
	entries := []entry.Entry{entry.New("x", "Y"), entry.New("<tag>", "Z")}
	a, err := Export(entries)
	require.NoError(t, err)
	b, err := Export(entries)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), `"text": "<tag>"`)
}

func TestExportEmptyCollection(t *testing.T) {
	doc, err := Export(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(doc))

	parsed, err := Parse(doc)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		kind  error
		index int
	}{
		{name: "empty", doc: "", kind: ErrEmptyInput},
		{name: "whitespace", doc: "  \n\t", kind: ErrEmptyInput},
		{name: "object", doc: `{"text":"a","category":"b"}`, kind: ErrNotSequence},
		{name: "string", doc: `"hello"`, kind: ErrNotSequence},
		{name: "garbage", doc: `not json`, kind: ErrNotSequence},
		{name: "truncated array", doc: `[{"text":"a"`, kind: ErrNotSequence},
		{name: "missing text", doc: `[{"category":"X"}]`, kind: ErrMalformedElement, index: 0},
		{name: "scalar element", doc: `[{"text":"a","category":"b"}, 3]`, kind: ErrMalformedElement, index: 1},
		{name: "blank category", doc: `[{"text":"a","category":"b"},{"text":"c","category":" "}]`, kind: ErrMalformedElement, index: 1},
		{name: "null element", doc: `[null]`, kind: ErrMalformedElement, index: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			if errors.Is(tt.kind, ErrEmptyInput) {
				return
			}
			var mde *MalformedDocumentError
			require.ErrorAs(t, err, &mde)
			assert.Equal(t, tt.index, mde.Index)
		})
	}
}

func TestMalformedElementCarriesValidationError(t *testing.T) {
	_, err := Parse([]byte(`[{"category":"X"}]`))
	var verr *entry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, entry.FieldText, verr.Field)
	assert.Equal(t, entry.ReasonMissing, verr.Reason)
	assert.NotErrorIs(t, err, ErrNotSequence)
}

func TestParsePreservesExtraFields(t *testing.T) {
	parsed, err := Parse([]byte(`[{"text":"a","category":"b","author":"anon","id":3}]`))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "3", parsed[0].ID)

	doc, err := Export(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"a","category":"b","id":"3","author":"anon"}]`, string(doc))
}

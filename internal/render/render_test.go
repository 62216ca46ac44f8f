package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/quotes/internal/entry"
)

func sample() []entry.Entry {
	return []entry.Entry{
		{ID: "1", Text: "Be yourself; everyone else is already taken.", Category: "Inspiration"},
		{ID: "2", Text: "Tom & Jerry <3, \"quoted\"", Category: "Humor"},
	}
}

func plain(f Format) *Renderer {
	return NewRenderer(Config{Format: f, Width: 80, ShowID: true})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDefault, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestRenderDefault(t *testing.T) {
	out, err := plain(FormatDefault).RenderList(List{Entries: sample(), Filter: "Humor"})
	require.NoError(t, err)
	assert.Contains(t, out, "category: Humor")
	assert.Contains(t, out, `"Be yourself; everyone else is already taken."`)
	assert.Contains(t, out, "- Inspiration")
	assert.Contains(t, out, "[2]")
}

func TestRenderDefaultEmpty(t *testing.T) {
	out, err := plain(FormatDefault).RenderList(List{})
	require.NoError(t, err)
	assert.Contains(t, out, "No entries.")
}

func TestRenderJSON(t *testing.T) {
	out, err := plain(FormatJSON).RenderList(List{Entries: sample(), Filter: "all", Total: 2})
	require.NoError(t, err)
	assert.Contains(t, out, "Tom & Jerry <3")

	var got struct {
		Entries []entry.Entry `json:"entries"`
		Filter  string        `json:"filter"`
		Total   int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sample(), got.Entries)
	assert.Equal(t, 2, got.Total)
}

func TestRenderJSONEmptyIsArray(t *testing.T) {
	out, err := plain(FormatJSON).RenderList(List{})
	require.NoError(t, err)
	assert.Contains(t, out, `"entries": []`)
}

func TestRenderCSV(t *testing.T) {
	out, err := plain(FormatCSV).RenderList(List{Entries: sample()})
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "category", "text"}, rows[0])
	assert.Equal(t, []string{"2", "Humor", "Tom & Jerry <3, \"quoted\""}, rows[2])
}

func TestRenderTable(t *testing.T) {
	out, err := plain(FormatTable).RenderList(List{Entries: sample()})
	require.NoError(t, err)
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "Inspiration")
	assert.Contains(t, out, "ID")
}

func TestRenderCompactAndQuiet(t *testing.T) {
	out, err := plain(FormatCompact).RenderList(List{Entries: sample()})
	require.NoError(t, err)
	assert.Contains(t, out, "Humor Tom & Jerry")

	out, err = plain(FormatQuiet).RenderList(List{Entries: sample()})
	require.NoError(t, err)
	assert.Equal(t, sample()[0].Text+"\n"+sample()[1].Text+"\n", out)
}

func TestRenderCategories(t *testing.T) {
	out := plain(FormatDefault).RenderCategories([]string{"all", "Humor"}, "Humor")
	assert.Contains(t, out, "* Humor")
	assert.Contains(t, out, "  all")
}

func TestCategoryColorIsStable(t *testing.T) {
	assert.Equal(t, CategoryColor("Humor"), CategoryColor("humor"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "a b", oneLine("a\n  b"))
}

func TestPage(t *testing.T) {
	entries := make([]entry.Entry, 7)
	p := NewPage(len(entries), 3, 3)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Slice(entries), 1)
	start, end := p.Range()
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
	assert.Equal(t, "use --page 2 for previous", p.Navigation())
	assert.Equal(t, "Showing 7-7 of 7 entries (page 3 of 3)", p.Summary())

	p = NewPage(len(entries), 3, 99)
	assert.Equal(t, 3, p.Current)

	p = NewPage(len(entries), 0, 1)
	assert.Len(t, p.Slice(entries), 7)
	assert.Empty(t, p.Navigation())

	p = NewPage(0, 10, 1)
	assert.Equal(t, "No results", p.Summary())
	assert.Empty(t, p.Slice(nil))
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, plain(FormatDefault))

	term.Show(sample()[0])
	term.ShowEmpty("Humor")
	term.ShowEmpty(entry.All)
	term.Notify("Entries synced with server!")

	out := buf.String()
	assert.Contains(t, out, "Be yourself")
	assert.Contains(t, out, `No entries in category "Humor".`)
	assert.Contains(t, out, "No entries yet.")
	assert.Contains(t, out, "Entries synced with server!")
}

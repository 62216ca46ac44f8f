// Package render formats entries for the terminal and for scripts.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ramanasai/quotes/internal/entry"
)

type Format string

const (
	FormatDefault Format = "default"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatCompact Format = "compact"
	FormatQuiet   Format = "quiet"
)

// Formats lists every accepted --format value.
var Formats = []Format{FormatDefault, FormatTable, FormatJSON, FormatCSV, FormatCompact, FormatQuiet}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatDefault, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

type Config struct {
	Format Format
	Width  int
	ShowID bool
	Color  bool
}

// DefaultConfig sizes output from $COLUMNS when it is set.
func DefaultConfig() Config {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return Config{Format: FormatDefault, Width: width, Color: true}
}

// List is a page of entries under a filter.
type List struct {
	Entries []entry.Entry `json:"entries"`
	Filter  string        `json:"filter"`
	Total   int           `json:"total"`
	Page    *Page         `json:"-"`
}

type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Category  lipgloss.Style
	Text      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
}

func NewStyles(color bool) Styles {
	if !color {
		return Styles{
			Title:     lipgloss.NewStyle().Bold(true),
			Separator: lipgloss.NewStyle(),
			Meta:      lipgloss.NewStyle(),
			ID:        lipgloss.NewStyle(),
			Category:  lipgloss.NewStyle().Bold(true),
			Text:      lipgloss.NewStyle(),
			Success:   lipgloss.NewStyle(),
			Error:     lipgloss.NewStyle(),
			Warning:   lipgloss.NewStyle(),
		}
	}
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Category:  lipgloss.NewStyle().Bold(true),
		Text:      lipgloss.NewStyle().Italic(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),
	}
}

type Renderer struct {
	cfg    Config
	styles Styles
}

func NewRenderer(cfg Config) *Renderer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultConfig().Width
	}
	if cfg.Format == "" {
		cfg.Format = FormatDefault
	}
	return &Renderer{cfg: cfg, styles: NewStyles(cfg.Color)}
}

func (r *Renderer) Styles() Styles { return r.styles }

// RenderList renders list in the configured format.
func (r *Renderer) RenderList(list List) (string, error) {
	switch r.cfg.Format {
	case FormatJSON:
		return r.renderJSON(list)
	case FormatCSV:
		return r.renderCSV(list)
	case FormatTable:
		return r.renderTable(list), nil
	case FormatCompact:
		return r.renderCompact(list), nil
	case FormatQuiet:
		return r.renderQuiet(list), nil
	default:
		return r.renderDefault(list), nil
	}
}

// RenderEntry renders a single entry the way the display shows it.
func (r *Renderer) RenderEntry(e entry.Entry) string {
	var b strings.Builder
	b.WriteString(r.styles.Text.Render("\"" + e.Text + "\""))
	b.WriteString("\n")
	meta := []string{r.categoryStyle(e.Category).Render("- " + e.Category)}
	if r.cfg.ShowID && e.ID != "" {
		meta = append(meta, r.styles.ID.Render("["+e.ID+"]"))
	}
	b.WriteString(strings.Join(meta, "  "))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) separator() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.cfg.Width, 120)))
}

func (r *Renderer) renderDefault(list List) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Entries"))
	if list.Filter != "" && list.Filter != entry.All {
		b.WriteString("  ")
		b.WriteString(r.styles.Separator.Render("category: "))
		b.WriteString(r.categoryStyle(list.Filter).Render(list.Filter))
	}
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")

	if list.Page != nil && list.Page.TotalPages > 1 {
		b.WriteString(r.styles.Meta.Render(list.Page.Summary()))
		b.WriteString("\n")
		b.WriteString(r.separator())
		b.WriteString("\n")
	}

	if len(list.Entries) == 0 {
		b.WriteString(r.styles.Meta.Render("No entries."))
		b.WriteString("\n")
	}
	for _, e := range list.Entries {
		b.WriteString(r.RenderEntry(e))
		b.WriteString(r.separator())
		b.WriteString("\n")
	}

	if list.Page != nil {
		if nav := list.Page.Navigation(); nav != "" {
			b.WriteString(r.styles.Meta.Render(nav))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) renderJSON(list List) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if list.Entries == nil {
		list.Entries = []entry.Entry{}
	}
	if err := enc.Encode(list); err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderCSV(list List) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "category", "text"}); err != nil {
		return "", err
	}
	for _, e := range list.Entries {
		if err := w.Write([]string{e.ID, e.Category, e.Text}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func (r *Renderer) renderTable(list List) string {
	headers := []string{"Category", "Text"}
	if r.cfg.ShowID {
		headers = append([]string{"ID"}, headers...)
	}
	t := table.New().Headers(headers...).Width(min(r.cfg.Width, 120))
	if r.cfg.Color {
		t = t.BorderStyle(r.styles.Separator).StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	for _, e := range list.Entries {
		row := []string{e.Category, truncate(oneLine(e.Text), 60)}
		if r.cfg.ShowID {
			row = append([]string{e.ID}, row...)
		}
		t = t.Row(row...)
	}
	return t.String() + "\n"
}

func (r *Renderer) renderCompact(list List) string {
	var b strings.Builder
	for _, e := range list.Entries {
		b.WriteString(r.categoryStyle(e.Category).Render(e.Category))
		b.WriteString(" ")
		b.WriteString(truncate(oneLine(e.Text), 80))
		b.WriteString("\n")
	}
	return b.String()
}

// renderQuiet prints only the text, for scripts.
func (r *Renderer) renderQuiet(list List) string {
	var b strings.Builder
	for _, e := range list.Entries {
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCategories renders the category index with the filter marked.
func (r *Renderer) RenderCategories(categories []string, filter string) string {
	var b strings.Builder
	for _, c := range categories {
		if c == filter {
			b.WriteString(r.styles.Success.Render("* " + c))
		} else {
			b.WriteString("  " + r.categoryStyle(c).Render(c))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) categoryStyle(cat string) lipgloss.Style {
	if !r.cfg.Color {
		return r.styles.Category
	}
	return r.styles.Category.Foreground(CategoryColor(cat))
}

var palette = []lipgloss.Color{
	"#F9E2AF", // yellow
	"#F5C2E7", // pink
	"#A6E3A1", // green
	"#89B4FA", // blue
	"#94E2D5", // teal
	"#FAB387", // peach
	"#CBA6F7", // mauve
}

// CategoryColor gives every category a stable color.
func CategoryColor(cat string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(cat)))
	return palette[h.Sum32()%uint32(len(palette))]
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

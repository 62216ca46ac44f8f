package render

import (
	"fmt"
	"strings"

	"github.com/ramanasai/quotes/internal/entry"
)

// Page is one window over a list of entries. Current is 1-based.
type Page struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPage clamps current into range. perPage <= 0 puts everything on one
// page.
func NewPage(total, perPage, current int) *Page {
	if perPage <= 0 {
		perPage = max(total, 1)
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	return &Page{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// Slice returns the entries on this page.
func (p *Page) Slice(entries []entry.Entry) []entry.Entry {
	if p.Offset >= len(entries) {
		return nil
	}
	end := min(p.Offset+p.PerPage, len(entries))
	return entries[p.Offset:end]
}

// Range returns the 1-based positions of the first and last item shown.
func (p *Page) Range() (start, end int) {
	if p.Total == 0 {
		return 0, 0
	}
	return p.Offset + 1, min(p.Offset+p.PerPage, p.Total)
}

func (p *Page) HasNext() bool { return p.Current < p.TotalPages }

func (p *Page) HasPrev() bool { return p.Current > 1 }

func (p *Page) Summary() string {
	if p.Total == 0 {
		return "No results"
	}
	start, end := p.Range()
	if p.TotalPages == 1 {
		return fmt.Sprintf("Showing %d-%d of %d entr%s", start, end, p.Total, plural(p.Total))
	}
	return fmt.Sprintf("Showing %d-%d of %d entr%s (page %d of %d)",
		start, end, p.Total, plural(p.Total), p.Current, p.TotalPages)
}

// Navigation returns --page hints for the CLI, or "" on a single page.
func (p *Page) Navigation() string {
	if p.TotalPages <= 1 {
		return ""
	}
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("use --page %d for previous", p.Current-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("use --page %d for next", p.Current+1))
	}
	return strings.Join(hints, ", ")
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}

package collection

import "github.com/ramanasai/quotes/internal/entry"

// Categories computes the Category Index: entry.All first, then every
// distinct category in first-seen order. It is a pure function of entries
// and is never cached.
func Categories(entries []entry.Entry) []string {
	out := []string{entry.All}
	seen := map[string]bool{entry.All: true}
	for _, e := range entries {
		if seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}

// HasCategory reports whether category is a member of the index of entries.
func HasCategory(entries []entry.Entry, category string) bool {
	if category == entry.All {
		return true
	}
	for _, e := range entries {
		if e.Category == category {
			return true
		}
	}
	return false
}

package app

import "github.com/ramanasai/quotes/internal/entry"

var defaultSeed = []struct {
	text     string
	category string
}{
	{"The only way to do great work is to love what you do.", "Inspiration"},
	{"Life is what happens when you're busy making other plans.", "Life"},
	{"Be yourself; everyone else is already taken.", "Inspiration"},
	{"I'm not arguing, I'm explaining why I'm right.", "Humor"},
	{"In the middle of difficulty lies opportunity.", "Wisdom"},
}

// DefaultSeed is the collection a fresh install starts with.
func DefaultSeed() []entry.Entry {
	out := make([]entry.Entry, 0, len(defaultSeed))
	for _, s := range defaultSeed {
		e := entry.New(s.text, s.category)
		e.ID = entry.NewID()
		out = append(out, e)
	}
	return out
}

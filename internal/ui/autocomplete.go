package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AutocompleteModel is a text input that suggests values from a source.
type AutocompleteModel struct {
	input          textinput.Model
	source         func() []string
	suggestions    []string
	showing        bool
	selected       int
	maxSuggestions int
	theme          Theme
}

// AutocompleteMsg carries fresh suggestions for the input.
type AutocompleteMsg struct {
	Suggestions []string
}

func NewAutocomplete(source func() []string, maxSuggestions int, theme Theme) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = "Category..."
	input.CharLimit = 64
	return AutocompleteModel{
		input:          input,
		source:         source,
		maxSuggestions: maxSuggestions,
		theme:          theme,
	}
}

func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab:
			if m.showing {
				m.selected = (m.selected + 1) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyShiftTab:
			if m.showing {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyEnter:
			if m.showing {
				m.input.SetValue(m.suggestions[m.selected])
				m.input.CursorEnd()
				m.hide()
				return m, nil
			}
		case tea.KeyEscape:
			if m.showing {
				m.hide()
				return m, nil
			}
		}

		old := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != old {
			return m, tea.Batch(cmd, m.fetchSuggestions())
		}
		return m, cmd

	case AutocompleteMsg:
		m.suggestions = msg.Suggestions
		m.selected = 0
		m.showing = len(m.suggestions) > 0 && m.input.Value() != ""
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m AutocompleteModel) fetchSuggestions() tea.Cmd {
	query := m.input.Value()
	source := m.source
	limit := m.maxSuggestions
	return func() tea.Msg {
		if source == nil || strings.TrimSpace(query) == "" {
			return AutocompleteMsg{}
		}
		return AutocompleteMsg{Suggestions: matchSuggestions(source(), query, limit)}
	}
}

// matchSuggestions keeps values containing query, prefix matches first.
// The synthetic "all" category is never suggested.
func matchSuggestions(values []string, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var prefix, contains []string
	for _, v := range values {
		lv := strings.ToLower(v)
		switch {
		case lv == "all" || lv == q:
		case strings.HasPrefix(lv, q):
			prefix = append(prefix, v)
		case strings.Contains(lv, q):
			contains = append(contains, v)
		}
	}
	out := append(prefix, contains...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m AutocompleteModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	if !m.showing {
		return b.String()
	}
	for i, s := range m.suggestions {
		b.WriteString("\n")
		if i == m.selected {
			b.WriteString(m.theme.SuggestionOn.Render("▶ " + s))
		} else {
			b.WriteString(m.theme.Suggestion.Render("  " + s))
		}
	}
	return b.String()
}

func (m *AutocompleteModel) hide() {
	m.showing = false
	m.selected = 0
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(v string) { m.input.SetValue(v) }

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.hide()
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.hide()
}

func (m AutocompleteModel) Showing() bool { return m.showing }

func (m AutocompleteModel) Suggestions() []string { return m.suggestions }

func (m *AutocompleteModel) SetWidth(w int) { m.input.Width = w }

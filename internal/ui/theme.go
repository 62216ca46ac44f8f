package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Card         lipgloss.Style
	Hint         lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
	StatusBar    lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalBox     lipgloss.Style
	Suggestion   lipgloss.Style
	SuggestionOn lipgloss.Style
}

var DefaultTheme = Theme{
	Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:        lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:        lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#F2CDCD")),
	Card:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6C7086")).Padding(1, 2),
	Hint:         lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Tab:          lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6C7086")),
	ActiveTab:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#89B4FA")),
	StatusBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("#BAC2DE")).Background(lipgloss.Color("#313244")).Padding(0, 1),
	ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")).MarginBottom(1),
	ModalBox:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(1, 2),
	Suggestion:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	SuggestionOn: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
}

// MonoTheme avoids color for terminals that render it poorly.
var MonoTheme = Theme{
	Title:        lipgloss.NewStyle().Bold(true),
	Label:        lipgloss.NewStyle().Faint(true),
	Value:        lipgloss.NewStyle().Italic(true),
	Card:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
	Hint:         lipgloss.NewStyle().Faint(true),
	Error:        lipgloss.NewStyle().Bold(true),
	Success:      lipgloss.NewStyle().Bold(true),
	Tab:          lipgloss.NewStyle().Padding(0, 1),
	ActiveTab:    lipgloss.NewStyle().Padding(0, 1).Reverse(true),
	StatusBar:    lipgloss.NewStyle().Reverse(true).Padding(0, 1),
	ModalTitle:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
	ModalBox:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
	Suggestion:   lipgloss.NewStyle(),
	SuggestionOn: lipgloss.NewStyle().Reverse(true),
}

// ThemeByName maps the config theme setting; unknown names get DefaultTheme.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mono", "monochrome", "plain":
		return MonoTheme
	}
	return DefaultTheme
}

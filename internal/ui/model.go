// Package ui is the interactive terminal front end.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/reconcile"
	"github.com/ramanasai/quotes/internal/store"
	"github.com/ramanasai/quotes/internal/version"
)

// DefaultNotifyDuration is how long a notification stays on screen.
const DefaultNotifyDuration = 3 * time.Second

// Service is what the TUI needs from the application.
type Service interface {
	Current(ctx context.Context) (entry.Entry, bool)
	Next(ctx context.Context) (entry.Entry, bool)
	SetFilter(ctx context.Context, category string) error
	Add(ctx context.Context, text, category string) (entry.Entry, error)
	Categories() []string
	Filter() string
}

// SyncFunc runs one reconciliation cycle on demand.
type SyncFunc func(ctx context.Context) reconcile.Outcome

type Options struct {
	// Theme defaults to DefaultTheme.
	Theme          *Theme
	NotifyDuration time.Duration
	// Sync is nil when no remote source is configured.
	Sync SyncFunc
}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeHelp
)

const (
	fieldText = iota
	fieldCategory
)

type errMsg struct{ err error }

type addedMsg struct{ entry entry.Entry }

type syncedMsg struct{ outcome reconcile.Outcome }

type clearNotificationMsg struct{ seq int }

type Model struct {
	ctx   context.Context
	svc   Service
	sync  SyncFunc
	theme Theme

	current    entry.Entry
	hasCurrent bool
	categories []string
	filter     string

	mode        mode
	addField    int
	addText     textinput.Model
	addCategory AutocompleteModel

	status         string
	notification   string
	notifySeq      int
	notifyDuration time.Duration
	syncing        bool

	width, height int
}

func New(ctx context.Context, svc Service, opts Options) Model {
	if opts.NotifyDuration <= 0 {
		opts.NotifyDuration = DefaultNotifyDuration
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	text := textinput.New()
	text.Placeholder = "Enter a new quote"
	text.CharLimit = 1000
	text.Width = 60

	cat := NewAutocomplete(svc.Categories, 5, theme)
	cat.SetWidth(30)

	return Model{
		ctx:            ctx,
		svc:            svc,
		sync:           opts.Sync,
		theme:          theme,
		categories:     svc.Categories(),
		filter:         svc.Filter(),
		addText:        text,
		addCategory:    cat,
		notifyDuration: opts.NotifyDuration,
	}
}

// NewProgram builds the program and attaches bridge to it. bridge must be
// the display the service was opened with. Events the service emits from
// here on are delivered once the program runs.
func NewProgram(ctx context.Context, svc Service, bridge *Bridge, opts Options) *tea.Program {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	return p
}

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, p *tea.Program) error {
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.currentCmd()
}

// ---------- commands ----------

func (m Model) currentCmd() tea.Cmd {
	return func() tea.Msg {
		if e, ok := m.svc.Current(m.ctx); ok {
			return shownMsg{entry: e}
		}
		return emptyMsg{filter: m.svc.Filter()}
	}
}

func (m Model) nextCmd() tea.Cmd {
	return func() tea.Msg {
		if e, ok := m.svc.Next(m.ctx); ok {
			return shownMsg{entry: e}
		}
		return emptyMsg{filter: m.svc.Filter()}
	}
}

func (m Model) setFilterCmd(category string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.SetFilter(m.ctx, category); err != nil {
			return errMsg{err: err}
		}
		return indexMsg{categories: m.svc.Categories(), filter: m.svc.Filter()}
	}
}

func (m Model) addCmd(text, category string) tea.Cmd {
	return func() tea.Msg {
		e, err := m.svc.Add(m.ctx, text, category)
		var serr *store.StorageError
		switch {
		case errors.As(err, &serr):
			return errMsg{err: fmt.Errorf("added but not saved: %w", err)}
		case err != nil:
			return errMsg{err: err}
		}
		return addedMsg{entry: e}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		return syncedMsg{outcome: m.sync(m.ctx)}
	}
}

func (m Model) clearNotificationCmd() tea.Cmd {
	seq := m.notifySeq
	return tea.Tick(m.notifyDuration, func(time.Time) tea.Msg { return clearNotificationMsg{seq: seq} })
}

// ---------- update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case shownMsg:
		m.current, m.hasCurrent = msg.entry, true
		return m, nil

	case emptyMsg:
		m.current, m.hasCurrent = entry.Entry{}, false
		return m, nil

	case indexMsg:
		m.categories = msg.categories
		m.filter = msg.filter
		return m, nil

	case notifyMsg:
		return m.notify(msg.text)

	case clearNotificationMsg:
		if msg.seq == m.notifySeq {
			m.notification = ""
		}
		return m, nil

	case addedMsg:
		m.categories = m.svc.Categories()
		return m.notify(fmt.Sprintf("Added to %s.", msg.entry.Category))

	case syncedMsg:
		m.syncing = false
		return m.afterSync(msg.outcome)

	case errMsg:
		m.status = errorText(msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeHelp:
			m.mode = modeNormal
			return m, nil
		}
		return m.updateNormal(msg.String())
	}

	if m.mode == modeAdd {
		return m.updateAdd(msg)
	}
	return m, nil
}

func (m Model) notify(text string) (tea.Model, tea.Cmd) {
	m.notifySeq++
	m.notification = text
	return m, m.clearNotificationCmd()
}

func (m Model) afterSync(out reconcile.Outcome) (tea.Model, tea.Cmd) {
	switch out.Status {
	case reconcile.Dropped:
		m.status = "Sync already in progress."
	case reconcile.Failed:
		m.status = "Sync failed: " + errorText(out.Err)
	case reconcile.Unchanged:
		m.status = "Already up to date."
	case reconcile.Changed:
		m.status = fmt.Sprintf("Synced: %d added, %d removed.", out.Result.Added, out.Result.Removed)
		if out.Err != nil {
			m.status = "Synced but not saved: " + errorText(out.Err)
		}
	}
	return m, nil
}

func (m Model) updateNormal(k string) (tea.Model, tea.Cmd) {
	m.status = ""
	switch k {
	case "q", "esc":
		return m, tea.Quit
	case "n", "enter", " ":
		return m, m.nextCmd()
	case "tab", "right", "l":
		return m, m.setFilterCmd(m.cycleFilter(1))
	case "shift+tab", "left", "h":
		return m, m.setFilterCmd(m.cycleFilter(-1))
	case "0":
		return m, m.setFilterCmd(entry.All)
	case "a":
		return m.openAdd()
	case "s":
		if m.sync == nil {
			m.status = "No remote configured (set remote.url)."
			return m, nil
		}
		if m.syncing {
			m.status = "Sync already in progress."
			return m, nil
		}
		m.syncing = true
		m.status = "Syncing..."
		return m, m.syncCmd()
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

// cycleFilter returns the category delta steps away from the current one.
func (m Model) cycleFilter(delta int) string {
	if len(m.categories) == 0 {
		return entry.All
	}
	idx := 0
	for i, c := range m.categories {
		if c == m.filter {
			idx = i
			break
		}
	}
	n := len(m.categories)
	return m.categories[((idx+delta)%n+n)%n]
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.addField = fieldText
	m.addText.SetValue("")
	m.addCategory.SetValue("")
	m.addCategory.Blur()
	if m.filter != entry.All {
		m.addCategory.SetValue(m.filter)
	}
	return m, m.addText.Focus()
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		suggesting := m.addField == fieldCategory && m.addCategory.Showing()
		switch km.String() {
		case "esc":
			if !suggesting {
				m.mode = modeNormal
				m.status = ""
				return m, nil
			}
		case "tab", "shift+tab":
			if !suggesting {
				return m.switchAddField()
			}
		case "enter":
			if suggesting {
				break
			}
			if m.addField == fieldText {
				return m.switchAddField()
			}
			text := strings.TrimSpace(m.addText.Value())
			category := strings.TrimSpace(m.addCategory.Value())
			if text == "" || category == "" {
				m.status = "Both quote and category are required."
				return m, nil
			}
			m.mode = modeNormal
			m.status = ""
			return m, m.addCmd(text, category)
		}
	}

	var cmd tea.Cmd
	if m.addField == fieldText {
		m.addText, cmd = m.addText.Update(msg)
	} else {
		m.addCategory, cmd = m.addCategory.Update(msg)
	}
	return m, cmd
}

func (m Model) switchAddField() (tea.Model, tea.Cmd) {
	if m.addField == fieldText {
		m.addField = fieldCategory
		m.addText.Blur()
		return m, m.addCategory.Focus()
	}
	m.addField = fieldText
	m.addCategory.Blur()
	return m, m.addText.Focus()
}

// ---------- view ----------

func (m Model) View() string {
	top := m.renderTopBar()
	tabs := m.renderCategoryBar()
	card := m.renderCard()
	note := ""
	if m.notification != "" {
		note = m.theme.Success.Render(m.notification)
	}
	status := m.statusBar()

	ui := lipgloss.JoinVertical(lipgloss.Left, top, tabs, "", card, note, status)

	switch m.mode {
	case modeAdd:
		return m.overlay(m.renderAddModal())
	case modeHelp:
		return m.overlay(m.helpView())
	}
	return ui
}

func (m Model) overlay(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderTopBar() string {
	return m.theme.Title.Render("Quotes") + "  " + m.theme.Hint.Render(version.GetShortVersion())
}

func (m Model) renderCategoryBar() string {
	tabs := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		if c == m.filter {
			tabs = append(tabs, m.theme.ActiveTab.Render(c))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(c))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) cardWidth() int {
	w := 70
	if m.width > 0 && m.width-4 < w {
		w = max(m.width-4, 20)
	}
	return w
}

func (m Model) renderCard() string {
	if !m.hasCurrent {
		msg := "No entries yet. Press a to add one."
		if m.filter != "" && m.filter != entry.All {
			msg = fmt.Sprintf("No entries in %q.", m.filter)
		}
		return m.theme.Card.Width(m.cardWidth()).Render(m.theme.Hint.Render(msg))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Value.Render("\""+m.current.Text+"\""),
		"",
		m.theme.Label.Render("- "+m.current.Category),
	)
	return m.theme.Card.Width(m.cardWidth()).Render(body)
}

func (m Model) statusBar() string {
	hints := "n next • ←/→ category • a add • s sync • ? help • q quit"
	if m.status != "" {
		hints = m.status
	}
	return m.theme.StatusBar.Render(fmt.Sprintf("Filter: %s   |   %s", m.filter, hints))
}

func (m Model) modal(title, content string) string {
	return m.theme.ModalBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ModalTitle.Render(title),
		content,
	))
}

func (m Model) renderAddModal() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Label.Render("Quote"),
		m.addText.View(),
		"",
		m.theme.Label.Render("Category"),
		m.addCategory.View(),
		"",
		m.theme.Hint.Render("Tab switch field • Enter save • Esc cancel"),
	)
	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.theme.Error.Render(m.status))
	}
	return m.modal("Add quote", content)
}

func (m Model) helpView() string {
	lines := []string{
		"n / enter     show another quote",
		"tab / →       next category",
		"shift+tab / ← previous category",
		"0             all categories",
		"a             add a quote",
		"s             sync with server now",
		"q             quit",
	}
	return m.modal("Keys", strings.Join(lines, "\n")+"\n\n"+m.theme.Hint.Render("any key to close"))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/quotes/internal/entry"
)

type shownMsg struct{ entry entry.Entry }

type emptyMsg struct{ filter string }

type notifyMsg struct{ text string }

type indexMsg struct {
	categories []string
	filter     string
}

// Bridge is the display sink for the TUI. It turns display events into
// program messages so they are handled on the update loop. Events sent
// before Attach are dropped.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewBridge() *Bridge { return &Bridge{} }

// Attach routes events to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = p.Send
}

func (b *Bridge) Show(e entry.Entry) { b.emit(shownMsg{entry: e}) }

func (b *Bridge) ShowEmpty(filter string) { b.emit(emptyMsg{filter: filter}) }

func (b *Bridge) Notify(message string) { b.emit(notifyMsg{text: message}) }

func (b *Bridge) CategoriesChanged(categories []string, filter string) {
	b.emit(indexMsg{categories: categories, filter: filter})
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/ramanasai/quotes/internal/entry"
)

// Terminal is a display sink that writes to w, one block per event.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
	r  *Renderer
}

func NewTerminal(w io.Writer, r *Renderer) *Terminal {
	if r == nil {
		r = NewRenderer(DefaultConfig())
	}
	return &Terminal{w: w, r: r}
}

func (t *Terminal) Show(e entry.Entry) {
	t.write(t.r.RenderEntry(e))
}

func (t *Terminal) ShowEmpty(filter string) {
	msg := "No entries yet. Add one with `quotes add`."
	if filter != "" && filter != entry.All {
		msg = fmt.Sprintf("No entries in category %q.", filter)
	}
	t.write(t.r.styles.Warning.Render(msg) + "\n")
}

func (t *Terminal) Notify(message string) {
	t.write(t.r.styles.Success.Render(message) + "\n")
}

func (t *Terminal) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, s)
}

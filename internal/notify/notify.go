// Package notify forwards display notifications to the desktop.
package notify

import (
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/ramanasai/quotes/internal/app"
	"github.com/ramanasai/quotes/internal/entry"
)

const Title = "Quotes"

// SendFunc delivers one desktop notification.
type SendFunc func(title, message string) error

// Beeep sends through the OS notification service.
func Beeep(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Desktop wraps a display and mirrors its notifications to the desktop.
// Entries and empty results go to the wrapped display only.
type Desktop struct {
	next   app.Display
	send   SendFunc
	logger *log.Logger
}

func NewDesktop(next app.Display, send SendFunc, logger *log.Logger) *Desktop {
	if send == nil {
		send = Beeep
	}
	return &Desktop{next: next, send: send, logger: logger}
}

func (d *Desktop) Show(e entry.Entry) {
	if d.next != nil {
		d.next.Show(e)
	}
}

func (d *Desktop) ShowEmpty(filter string) {
	if d.next != nil {
		d.next.ShowEmpty(filter)
	}
}

func (d *Desktop) Notify(message string) {
	if d.next != nil {
		d.next.Notify(message)
	}
	if err := d.send(Title, message); err != nil && d.logger != nil {
		d.logger.Warn("desktop notification failed", "err", err)
	}
}

// CategoriesChanged passes index updates through when the wrapped display
// renders categories.
func (d *Desktop) CategoriesChanged(categories []string, filter string) {
	if l, ok := d.next.(app.IndexListener); ok {
		l.CategoriesChanged(categories, filter)
	}
}

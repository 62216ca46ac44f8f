package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/logging"
)

type sink struct {
	shown []entry.Entry
	empty []string
	notes []string
	cats  []string
}

func (s *sink) Show(e entry.Entry) { s.shown = append(s.shown, e) }
func (s *sink) ShowEmpty(f string) { s.empty = append(s.empty, f) }
func (s *sink) Notify(m string) { s.notes = append(s.notes, m) }
func (s *sink) CategoriesChanged(c []string, _ string) { s.cats = c }

func TestDesktopMirrorsNotifications(t *testing.T) {
	next := &sink{}
	var sent []string
	d := NewDesktop(next, func(title, msg string) error {
		assert.Equal(t, Title, title)
		sent = append(sent, msg)
		return nil
	}, logging.Discard())

	d.Show(entry.New("a", "B"))
	d.ShowEmpty("B")
	d.Notify("Entries synced with server!")
	d.CategoriesChanged([]string{"all", "B"}, "all")

	assert.Len(t, next.shown, 1)
	assert.Equal(t, []string{"B"}, next.empty)
	assert.Equal(t, []string{"Entries synced with server!"}, next.notes)
	assert.Equal(t, []string{"Entries synced with server!"}, sent)
	assert.Equal(t, []string{"all", "B"}, next.cats)
}

func TestDesktopSendFailureIsNotFatal(t *testing.T) {
	next := &sink{}
	d := NewDesktop(next, func(string, string) error { return errors.New("no dbus") }, logging.Discard())
	assert.NotPanics(t, func() { d.Notify("hi") })
	assert.Equal(t, []string{"hi"}, next.notes)
}

func TestDesktopWithoutWrappedDisplay(t *testing.T) {
	calls := 0
	d := NewDesktop(nil, func(string, string) error { calls++; return nil }, nil)
	d.Show(entry.New("a", "B"))
	d.CategoriesChanged(nil, "all")
	d.Notify("x")
	assert.Equal(t, 1, calls)
}

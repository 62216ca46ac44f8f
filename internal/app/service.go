// Package app orchestrates the entry collection, its durable and session
// copies, the category index, selection, and the display sink.
//
// Every mutating call is write-through: when it returns, the persisted copy
// matches memory, or the caller got a *store.StorageError saying it does not.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/logging"
	"github.com/ramanasai/quotes/internal/selection"
	"github.com/ramanasai/quotes/internal/store"
	"github.com/ramanasai/quotes/internal/transfer"
)

// Notification texts shown after a successful bulk change.
const (
	MsgSynced   = "Entries synced with server!"
	MsgImported = "Entries imported successfully!"
)

// ErrUnknownCategory is returned by SetFilter for a category that is not in
// the index.
var ErrUnknownCategory = errors.New("unknown category")

// Display receives what the user should see. It never produces data.
type Display interface {
	Show(e entry.Entry)
	ShowEmpty(filter string)
	Notify(message string)
}

// IndexListener is implemented by displays that render the category list.
type IndexListener interface {
	CategoriesChanged(categories []string, filter string)
}

// Poster sends a newly added entry to the remote source.
type Poster interface {
	PostEntry(ctx context.Context, e entry.Entry) error
}

type Options struct {
	Persistent store.KV
	Ephemeral  store.KV
	Selector   *selection.Selector
	Display    Display
	Poster     Poster
	Logger     *log.Logger
	// Seed is used when nothing has been persisted yet. Nil means
	// DefaultSeed.
	Seed []entry.Entry
}

type Service struct {
	mu         sync.Mutex
	coll       *collection.Collection
	persistent store.KV
	ephemeral  store.KV
	selector   *selection.Selector
	display    Display
	poster     Poster
	logger     *log.Logger
	filter     string
}

// Open loads the collection and filter from the persistent store. When no
// entries were ever persisted it starts from the seed set and persists it.
// If the seed or a reset filter cannot be written, Open returns the usable
// service together with the *store.StorageError.
func Open(ctx context.Context, opts Options) (*Service, error) {
	if opts.Persistent == nil {
		return nil, errors.New("app: persistent store required")
	}
	s := &Service{
		persistent: opts.Persistent,
		ephemeral:  opts.Ephemeral,
		selector:   opts.Selector,
		display:    opts.Display,
		poster:     opts.Poster,
		logger:     opts.Logger,
		filter:     entry.All,
	}
	if s.selector == nil {
		s.selector = selection.New(nil, 0)
	}
	if s.display == nil {
		s.display = nopDisplay{}
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "app")

	var diverged error
	if err := s.loadEntries(ctx, opts.Seed); err != nil {
		var serr *store.StorageError
		if s.coll == nil || !errors.As(err, &serr) {
			return nil, err
		}
		diverged = err
	}
	if err := s.loadFilter(ctx); err != nil {
		return s, errors.Join(diverged, err)
	}
	return s, diverged
}

func (s *Service) loadEntries(ctx context.Context, seed []entry.Entry) error {
	raw, found, err := s.persistent.Get(ctx, store.KeyEntries)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	if !found {
		if seed == nil {
			seed = DefaultSeed()
		}
		coll, errs := collection.New(seed)
		for _, e := range errs {
			s.logger.Warn("skipping seed entry", "err", e)
		}
		s.coll = coll
		s.logger.Debug("started from seed set", "entries", coll.Len())
		if err := s.persistLocked(ctx); err != nil {
			s.logger.Error("could not persist seed entries", "err", err)
			return err
		}
		return nil
	}

	entries, err := transfer.Parse(raw)
	if err != nil {
		return fmt.Errorf("load entries: persisted data is unreadable: %w", err)
	}
	coll, errs := collection.New(entries)
	for _, e := range errs {
		s.logger.Warn("skipping persisted entry", "err", e)
	}
	s.coll = coll
	s.logger.Debug("loaded entries", "entries", coll.Len())
	return nil
}

func (s *Service) loadFilter(ctx context.Context) error {
	raw, found, err := s.persistent.Get(ctx, store.KeyFilter)
	if err != nil {
		s.logger.Warn("could not read saved filter", "err", err)
		return nil
	}
	if !found {
		return nil
	}
	saved := string(raw)
	if collection.HasCategory(s.coll.Snapshot(), saved) {
		s.filter = saved
		return nil
	}
	s.logger.Debug("saved filter no longer exists, resetting", "filter", saved)
	s.filter = entry.All
	return s.persistFilterLocked(ctx)
}

// Entries returns the entries visible under filter.
func (s *Service) Entries(filter string) []entry.Entry {
	return entry.Filter(s.coll.Snapshot(), filter)
}

// Snapshot returns every entry in insertion order.
func (s *Service) Snapshot() []entry.Entry {
	return s.coll.Snapshot()
}

// Categories is the current Category Index.
func (s *Service) Categories() []string {
	return collection.Categories(s.coll.Snapshot())
}

// Filter is the selected category.
func (s *Service) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter selects category, persists it and refreshes the display.
func (s *Service) SetFilter(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !collection.HasCategory(s.coll.Snapshot(), category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	s.filter = category
	err := s.persistFilterLocked(ctx)
	s.notifyIndexLocked()
	s.nextLocked(ctx)
	return err
}

// Add validates and appends a user entry, persists it, and posts it to the
// remote when one is configured. A failed post is reported to the display
// and logged; the local add stands.
func (s *Service) Add(ctx context.Context, text, category string) (entry.Entry, error) {
	s.mu.Lock()
	added, err := s.coll.Add(entry.New(text, category))
	if err != nil {
		s.mu.Unlock()
		return entry.Entry{}, err
	}
	perr := s.persistLocked(ctx)
	s.rebuildIndexLocked(ctx)
	s.mu.Unlock()

	if s.poster != nil {
		if err := s.poster.PostEntry(ctx, added); err != nil {
			s.logger.Warn("could not post entry to server", "err", err)
			s.display.Notify("Saved locally; sending to server failed.")
		}
	}
	return added, perr
}

// Import appends every entry in doc or none of them.
func (s *Service) Import(ctx context.Context, doc []byte) (int, error) {
	entries, err := transfer.Parse(doc)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	added, err := s.coll.Append(entries)
	if err != nil {
		return 0, err
	}
	if len(added) == 0 {
		return 0, nil
	}
	perr := s.afterBulkChangeLocked(ctx, MsgImported)
	return len(added), perr
}

// Export serializes the whole collection.
func (s *Service) Export() ([]byte, error) {
	return transfer.Export(s.coll.Snapshot())
}

// ApplyRemote merges remote candidates under policy. Only a merge that
// changed the collection persists, rebuilds the index, refreshes the
// display and notifies, in that order.
func (s *Service) ApplyRemote(ctx context.Context, candidates []entry.Entry, policy collection.Policy) (collection.MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.coll.MergeIn(candidates, policy)
	if err != nil || !res.Changed {
		return res, err
	}
	return res, s.afterBulkChangeLocked(ctx, MsgSynced)
}

func (s *Service) afterBulkChangeLocked(ctx context.Context, msg string) error {
	err := s.persistLocked(ctx)
	s.rebuildIndexLocked(ctx)
	s.nextLocked(ctx)
	s.display.Notify(msg)
	return err
}

// Next picks a new entry for the current filter, avoiding the one shown
// last, records it for the session and sends it to the display.
func (s *Service) Next(ctx context.Context) (entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked(ctx)
}

func (s *Service) nextLocked(ctx context.Context) (entry.Entry, bool) {
	e, ok := s.selector.Select(s.coll.Snapshot(), s.filter, s.lastShown(ctx))
	if !ok {
		s.display.ShowEmpty(s.filter)
		return entry.Entry{}, false
	}
	s.rememberShown(ctx, e)
	s.display.Show(e)
	return e, true
}

// Current re-displays the entry last shown in this session when it is
// still visible under the filter, and otherwise behaves like Next.
func (s *Service) Current(ctx context.Context) (entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last := s.lastShown(ctx); last != "" {
		for _, e := range entry.Filter(s.coll.Snapshot(), s.filter) {
			if e.Identity() == last {
				s.display.Show(e)
				return e, true
			}
		}
	}
	return s.nextLocked(ctx)
}

func (s *Service) lastShown(ctx context.Context) string {
	if s.ephemeral == nil {
		return ""
	}
	raw, found, err := s.ephemeral.Get(ctx, store.KeyLastShown)
	if err != nil {
		s.logger.Debug("could not read last shown entry", "err", err)
		return ""
	}
	if !found {
		return ""
	}
	return string(raw)
}

func (s *Service) rememberShown(ctx context.Context, e entry.Entry) {
	if s.ephemeral == nil {
		return
	}
	if err := s.ephemeral.Set(ctx, store.KeyLastShown, []byte(e.Identity())); err != nil {
		s.logger.Warn("could not record last shown entry", "err", err)
	}
}

// rebuildIndexLocked recomputes the Category Index and resets a filter whose
// category disappeared.
func (s *Service) rebuildIndexLocked(ctx context.Context) {
	if !collection.HasCategory(s.coll.Snapshot(), s.filter) {
		s.logger.Debug("filter category vanished, resetting", "filter", s.filter)
		s.filter = entry.All
		if err := s.persistFilterLocked(ctx); err != nil {
			s.logger.Error("could not persist filter", "err", err)
		}
	}
	s.notifyIndexLocked()
}

func (s *Service) notifyIndexLocked() {
	if l, ok := s.display.(IndexListener); ok {
		l.CategoriesChanged(collection.Categories(s.coll.Snapshot()), s.filter)
	}
}

func (s *Service) persistLocked(ctx context.Context) error {
	doc, err := transfer.Export(s.coll.Snapshot())
	if err != nil {
		return &store.StorageError{Op: "encode", Key: store.KeyEntries, Err: err}
	}
	return asStorageError("set", store.KeyEntries, s.persistent.Set(ctx, store.KeyEntries, doc))
}

func (s *Service) persistFilterLocked(ctx context.Context) error {
	return asStorageError("set", store.KeyFilter, s.persistent.Set(ctx, store.KeyFilter, []byte(s.filter)))
}

func asStorageError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var serr *store.StorageError
	if errors.As(err, &serr) {
		return err
	}
	return &store.StorageError{Op: op, Key: key, Err: err}
}

type nopDisplay struct{}

func (nopDisplay) Show(entry.Entry) {}
func (nopDisplay) ShowEmpty(string) {}
func (nopDisplay) Notify(string)    {}

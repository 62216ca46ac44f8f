// Package collection owns the in-memory ordered list of entries. It is the
// single source of truth while the process runs; every mutation goes through
// Add, Append, ReplaceAll or MergeIn and bumps the version.
package collection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ramanasai/quotes/internal/entry"
)

// Policy selects how remote candidates are reconciled with local entries.
type Policy string

const (
	// Additive appends remote candidates that have no (text, category)
	// match in the local collection.
	Additive Policy = "additive"
	// Authoritative discards the local collection and substitutes the
	// remote set.
	Authoritative Policy = "authoritative"
)

// ErrUnknownPolicy is returned by ParsePolicy and MergeIn.
var ErrUnknownPolicy = errors.New("unknown merge policy")

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case Additive, Authoritative:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MergeResult describes what a merge did to the collection.
type MergeResult struct {
	Policy  Policy
	Added   int
	Removed int
	Changed bool
}

// Collection is safe for concurrent use. Readers never observe a partially
// applied mutation.
type Collection struct {
	mu      sync.RWMutex
	entries []entry.Entry
	version uint64
}

// New builds a collection from already-persisted entries. Invalid entries
// are dropped and reported in the returned error list.
func New(entries []entry.Entry) (*Collection, []error) {
	c := &Collection{}
	var errs []error
	ids := make(map[string]bool, len(entries))
	for i, e := range entries {
		n, err := entry.Normalize(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		c.entries = append(c.entries, uniqueID(n, ids))
	}
	return c, errs
}

// Snapshot returns a copy of the entries in insertion order.
func (c *Collection) Snapshot() []entry.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entry.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Version increases by one on every mutation that changed the entries.
func (c *Collection) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Add validates e, assigns an ID when it has none, and appends it.
// Manual additions are not deduplicated.
func (c *Collection) Add(e entry.Entry) (entry.Entry, error) {
	n, err := entry.Normalize(e)
	if err != nil {
		return entry.Entry{}, err
	}
	if n.ID == "" {
		n.ID = entry.NewID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n = uniqueID(n, c.idsLocked())
	c.entries = append(c.entries, n)
	c.version++
	return n, nil
}

// Append validates every entry first and appends all of them or none.
func (c *Collection) Append(entries []entry.Entry) ([]entry.Entry, error) {
	normalized := make([]entry.Entry, 0, len(entries))
	for i, e := range entries {
		n, err := entry.Normalize(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.idsLocked()
	for i := range normalized {
		normalized[i] = uniqueID(normalized[i], ids)
	}
	c.entries = append(c.entries, normalized...)
	c.version++
	return normalized, nil
}

// ReplaceAll atomically substitutes the whole collection. It reports
// whether the new contents differ from the old.
func (c *Collection) ReplaceAll(entries []entry.Entry) (bool, error) {
	next := make([]entry.Entry, 0, len(entries))
	ids := make(map[string]bool, len(entries))
	for i, e := range entries {
		n, err := entry.Normalize(e)
		if err != nil {
			return false, fmt.Errorf("entry %d: %w", i, err)
		}
		next = append(next, uniqueID(n, ids))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sameKeys(c.entries, next) {
		return false, nil
	}
	c.entries = next
	c.version++
	return true, nil
}

// MergeIn reconciles remote candidates under policy. The merge is applied
// as one step; a merge that changes nothing leaves the version untouched.
func (c *Collection) MergeIn(candidates []entry.Entry, policy Policy) (MergeResult, error) {
	switch policy {
	case Authoritative:
		return c.mergeAuthoritative(candidates)
	case Additive:
		return c.mergeAdditive(candidates)
	}
	return MergeResult{Policy: policy}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
}

func (c *Collection) mergeAdditive(candidates []entry.Entry) (MergeResult, error) {
	normalized := make([]entry.Entry, 0, len(candidates))
	for i, e := range candidates {
		n, err := entry.Normalize(e)
		if err != nil {
			return MergeResult{Policy: Additive}, fmt.Errorf("candidate %d: %w", i, err)
		}
		normalized = append(normalized, n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[entry.Key]bool, len(c.entries)+len(normalized))
	for _, e := range c.entries {
		seen[e.Key()] = true
	}
	ids := c.idsLocked()
	var added []entry.Entry
	for _, n := range normalized {
		if seen[n.Key()] {
			continue
		}
		seen[n.Key()] = true
		added = append(added, uniqueID(n, ids))
	}
	res := MergeResult{Policy: Additive, Added: len(added), Changed: len(added) > 0}
	if res.Changed {
		c.entries = append(c.entries, added...)
		c.version++
	}
	return res, nil
}

// mergeAuthoritative substitutes the remote set. Repeated (text, category)
// pairs keep their first occurrence, and an id already used by an earlier
// candidate is cleared, so the same remote set always yields the same
// collection. The merge is unchanged when every candidate matches the local
// entry at its position by key, and by id where the candidate has one.
func (c *Collection) mergeAuthoritative(candidates []entry.Entry) (MergeResult, error) {
	res := MergeResult{Policy: Authoritative}
	next := make([]entry.Entry, 0, len(candidates))
	seen := make(map[entry.Key]bool, len(candidates))
	ids := make(map[string]bool, len(candidates))
	for i, e := range candidates {
		n, err := entry.Normalize(e)
		if err != nil {
			return res, fmt.Errorf("candidate %d: %w", i, err)
		}
		if seen[n.Key()] {
			continue
		}
		seen[n.Key()] = true
		if ids[n.ID] {
			n.ID = ""
		} else if n.ID != "" {
			ids[n.ID] = true
		}
		next = append(next, n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if matchesRemote(c.entries, next) {
		return res, nil
	}
	res.Added, res.Removed, res.Changed = len(next), len(c.entries), true
	c.entries = next
	c.version++
	return res, nil
}

func matchesRemote(local, remote []entry.Entry) bool {
	if len(local) != len(remote) {
		return false
	}
	for i := range remote {
		if local[i].Key() != remote[i].Key() {
			return false
		}
		if remote[i].ID != "" && remote[i].ID != local[i].ID {
			return false
		}
	}
	return true
}

func (c *Collection) idsLocked() map[string]bool {
	ids := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		if e.ID != "" {
			ids[e.ID] = true
		}
	}
	return ids
}

// uniqueID gives e a fresh ID when its ID is already taken, and records the
// ID it ends up with.
func uniqueID(e entry.Entry, ids map[string]bool) entry.Entry {
	if e.ID == "" {
		return e
	}
	if ids[e.ID] {
		e.ID = entry.NewID()
	}
	ids[e.ID] = true
	return e
}

func sameKeys(a, b []entry.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() || a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

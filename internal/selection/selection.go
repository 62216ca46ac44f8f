// Package selection picks the entry to display for a filter, avoiding an
// immediate repeat of the previous pick when alternatives exist.
package selection

import (
	"math/rand/v2"
	"sync"

	"github.com/ramanasai/quotes/internal/entry"
)

// DefaultMaxAttempts bounds the anti-repeat resampling.
const DefaultMaxAttempts = 10

// Selector is safe for concurrent use.
type Selector struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxAttempts int
}

// New returns a Selector drawing from rng. A nil rng uses a randomly seeded
// source; maxAttempts below 1 uses DefaultMaxAttempts.
func New(rng *rand.Rand, maxAttempts int) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Selector{rng: rng, maxAttempts: maxAttempts}
}

// Select chooses uniformly among the entries matching filter. ok is false
// when no entry matches; that is an empty result, not an error. When more
// than one candidate exists and lastShown (an entry Identity) is among them,
// it resamples up to the attempt cap and then accepts whatever it drew.
func (s *Selector) Select(entries []entry.Entry, filter, lastShown string) (entry.Entry, bool) {
	candidates := entry.Filter(entries, filter)
	if len(candidates) == 0 {
		return entry.Entry{}, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pick := candidates[s.rng.IntN(len(candidates))]
	if lastShown == "" || !contains(candidates, lastShown) {
		return pick, true
	}
	for attempt := 1; attempt < s.maxAttempts && pick.Identity() == lastShown; attempt++ {
		pick = candidates[s.rng.IntN(len(candidates))]
	}
	return pick, true
}

func contains(entries []entry.Entry, identity string) bool {
	for _, e := range entries {
		if e.Identity() == identity {
			return true
		}
	}
	return false
}

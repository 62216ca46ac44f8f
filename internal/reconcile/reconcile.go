// Package reconcile periodically pulls entries from the remote source and
// merges them into the local collection.
//
// One cycle moves Idle -> Fetching -> Merging -> Idle. A failed fetch goes
// straight back to Idle without touching local state. At most one cycle is
// in flight; a tick that arrives while a cycle is running is dropped.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/schedule"
)

// DefaultInterval is the time between cycles.
const DefaultInterval = 30 * time.Second

type State int32

const (
	Idle State = iota
	Fetching
	Merging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Merging:
		return "merging"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Source yields remote candidates.
type Source interface {
	FetchCandidates(ctx context.Context) ([]entry.Entry, error)
}

// Target applies candidates to the local collection. It is responsible for
// the persist, index, refresh and notify side effects of a changing merge.
type Target interface {
	ApplyRemote(ctx context.Context, candidates []entry.Entry, policy collection.Policy) (collection.MergeResult, error)
}

// Status is the result of one Trigger.
type Status int

const (
	// Dropped: another cycle was in flight.
	Dropped Status = iota
	// Failed: the fetch or the merge failed; nothing was applied.
	Failed
	// Unchanged: the merge found nothing to change.
	Unchanged
	// Changed: the collection changed. Err may still report a storage
	// failure after the in-memory merge was applied.
	Changed
)

func (s Status) String() string {
	switch s {
	case Dropped:
		return "dropped"
	case Failed:
		return "failed"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Outcome struct {
	Status Status
	Result collection.MergeResult
	Err    error
}

// Engine runs reconciliation cycles.
type Engine struct {
	source   Source
	target   Target
	policy   collection.Policy
	interval time.Duration
	logger   *log.Logger

	state atomic.Int32
}

// Option configures an Engine.
type Option func(*Engine)

func WithPolicy(p collection.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an idle Engine. The default policy is collection.Additive.
func New(source Source, target Target, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		target:   target,
		policy:   collection.Additive,
		interval: DefaultInterval,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "reconcile")
	return e
}

func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) Policy() collection.Policy { return e.policy }

func (e *Engine) Interval() time.Duration { return e.interval }

// Trigger runs one cycle now unless a cycle is already in flight, in which
// case it returns Dropped immediately. It never panics and never returns a
// fetch failure as anything other than a Failed outcome.
func (e *Engine) Trigger(ctx context.Context) Outcome {
	if !e.state.CompareAndSwap(int32(Idle), int32(Fetching)) {
		e.logger.Debug("tick dropped, cycle in flight", "state", e.State())
		return Outcome{Status: Dropped}
	}
	defer e.state.Store(int32(Idle))
	return e.cycle(ctx)
}

func (e *Engine) cycle(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("reconciliation cycle panicked", "panic", r)
			out = Outcome{Status: Failed, Err: fmt.Errorf("reconcile: panic: %v", r)}
		}
	}()

	candidates, err := e.source.FetchCandidates(ctx)
	if err != nil {
		e.logger.Warn("fetch failed, waiting for next tick", "err", err)
		return Outcome{Status: Failed, Err: err}
	}

	e.state.Store(int32(Merging))
	res, err := e.target.ApplyRemote(ctx, candidates, e.policy)
	switch {
	case res.Changed:
		if err != nil {
			e.logger.Error("merged but failed to persist", "err", err)
		}
		e.logger.Info("merged remote entries", "policy", res.Policy, "added", res.Added, "removed", res.Removed)
		return Outcome{Status: Changed, Result: res, Err: err}
	case err != nil:
		e.logger.Warn("merge rejected", "err", err)
		return Outcome{Status: Failed, Result: res, Err: err}
	}
	e.logger.Debug("remote already in sync", "candidates", len(candidates))
	return Outcome{Status: Unchanged, Result: res}
}

// Run triggers a cycle every interval until ctx is canceled, plus once at
// start when immediate is set. Ticks are dispatched without waiting for the
// previous cycle, so a tick that lands during a slow fetch is dropped by
// Trigger. Canceling ctx stops future ticks only: a cycle already in flight
// runs to completion and its merge is applied. Run waits for it before
// returning.
func (e *Engine) Run(ctx context.Context, immediate bool) {
	e.logger.Debug("reconciliation started", "interval", e.interval, "policy", e.policy)
	var wg sync.WaitGroup
	schedule.Every(ctx, e.interval, immediate, func(ctx context.Context) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Trigger(context.WithoutCancel(ctx))
		}()
	})
	wg.Wait()
	e.logger.Debug("reconciliation stopped")
}

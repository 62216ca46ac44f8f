package schedule

import (
	"context"
	"time"
)

// Every runs f every interval until ctx is canceled. When immediate is set
// f also runs once before the first interval elapses. f runs on the
// caller's goroutine, so a slow f delays the next tick instead of
// overlapping with it.
func Every(ctx context.Context, interval time.Duration, immediate bool, f func(context.Context)) {
	if immediate {
		if ctx.Err() != nil {
			return
		}
		f(ctx)
	}
	t := time.NewTimer(interval)
	for {
		select {
		case <-ctx.Done():
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			return
		case <-t.C:
			f(ctx)
			t.Reset(interval)
		}
	}
}

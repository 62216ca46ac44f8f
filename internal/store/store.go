// Package store provides the key/value persistence used for entries, the
// selected filter and the last shown entry.
package store

import (
	"context"
	"fmt"
)

// Keys written by the application.
const (
	KeyEntries   = "entries"
	KeyFilter    = "filter"
	KeyLastShown = "last_shown"
)

// KV is the persistence contract: Get reports found=false for an absent
// key. No multi-key transaction is implied.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// StorageError reports that the persistence layer failed. The in-memory
// state the caller holds stays valid but has diverged from disk.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

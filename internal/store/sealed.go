package store

import (
	"context"
	"fmt"
)

// Sealer encrypts values at rest.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Sealed wraps a KV so that every value is encrypted before it is written.
type Sealed struct {
	kv     KV
	sealer Sealer
}

func NewSealed(kv KV, sealer Sealer) *Sealed {
	return &Sealed{kv: kv, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	plain, err := s.sealer.Open(raw)
	if err != nil {
		return nil, false, &StorageError{Op: "open", Key: key, Err: fmt.Errorf("wrong passphrase or corrupt value: %w", err)}
	}
	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return &StorageError{Op: "seal", Key: key, Err: err}
	}
	return s.kv.Set(ctx, key, sealed)
}

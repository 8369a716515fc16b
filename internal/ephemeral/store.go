// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package ephemeral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes partition the single Badger keyspace by concern, mirroring
// the teacher's session/session_user prefix convention.
const (
	replayKeyPrefix   = "replay:"
	rateKeyPrefix     = "rate:"
	cooldownKeyPrefix = "cooldown:"
)

// Store is a BadgerDB-backed TTL key-value store for admission-pipeline
// bookkeeping that must survive a process restart for at least its TTL.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a Badger database at dir. Use an empty dir for
// an in-memory store, suitable for tests.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ephemeral: opening badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkReplay records that an event key has been admitted, with ttl as the
// replay-detection window. It returns true if the key was already present
// (a replay), false if this is the first time the key has been seen.
func (s *Store) MarkReplay(ctx context.Context, key string, ttl time.Duration) (replay bool, err error) {
	fullKey := []byte(replayKeyPrefix + key)

	err = s.db.Update(func(txn *badger.Txn) error {
		_, getErr := txn.Get(fullKey)
		if getErr == nil {
			replay = true
			return nil
		}
		if !errors.Is(getErr, badger.ErrKeyNotFound) {
			return getErr
		}

		entry := badger.NewEntry(fullKey, []byte{1}).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return false, fmt.Errorf("ephemeral: mark replay: %w", err)
	}
	return replay, nil
}

// ReleaseReplay clears a previously-set replay marker, used when a store
// failure aborts the write the marker was guarding so the client's retry
// with the same event_id is not permanently treated as a duplicate.
func (s *Store) ReleaseReplay(ctx context.Context, key string) error {
	fullKey := []byte(replayKeyPrefix + key)
	err := s.db.Update(func(txn *badger.Txn) error {
		delErr := txn.Delete(fullKey)
		if errors.Is(delErr, badger.ErrKeyNotFound) {
			return nil
		}
		return delErr
	})
	if err != nil {
		return fmt.Errorf("ephemeral: release replay: %w", err)
	}
	return nil
}

// IncrementRateCounter increments the counter for key within the current
// ttl-bounded window and returns the post-increment count. The counter
// resets implicitly once its entry expires, since a fresh key with no
// prior entry starts from zero.
func (s *Store) IncrementRateCounter(ctx context.Context, key string, ttl time.Duration) (count int64, err error) {
	fullKey := []byte(rateKeyPrefix + key)

	err = s.db.Update(func(txn *badger.Txn) error {
		item, getErr := txn.Get(fullKey)
		switch {
		case getErr == nil:
			if valErr := item.Value(func(val []byte) error {
				count = decodeInt64(val)
				return nil
			}); valErr != nil {
				return valErr
			}
			count++
			remaining := time.Until(item.ExpiresAt().UTC())
			if item.ExpiresAt() == 0 || remaining <= 0 {
				remaining = ttl
			}
			return txn.SetEntry(badger.NewEntry(fullKey, encodeInt64(count)).WithTTL(remaining))
		case errors.Is(getErr, badger.ErrKeyNotFound):
			count = 1
			return txn.SetEntry(badger.NewEntry(fullKey, encodeInt64(count)).WithTTL(ttl))
		default:
			return getErr
		}
	})
	if err != nil {
		return 0, fmt.Errorf("ephemeral: increment rate counter: %w", err)
	}
	return count, nil
}

// InCooldown reports whether key is currently within an active cooldown
// window. It does not itself start the cooldown; call StartCooldown once
// an alert is emitted.
func (s *Store) InCooldown(ctx context.Context, key string) (bool, error) {
	fullKey := []byte(cooldownKeyPrefix + key)
	inCooldown := false

	err := s.db.View(func(txn *badger.Txn) error {
		_, getErr := txn.Get(fullKey)
		if getErr == nil {
			inCooldown = true
			return nil
		}
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}
		return getErr
	})
	if err != nil {
		return false, fmt.Errorf("ephemeral: check cooldown: %w", err)
	}
	return inCooldown, nil
}

// StartCooldown opens a cooldown window for key lasting ttl, during which
// InCooldown reports true.
func (s *Store) StartCooldown(ctx context.Context, key string, ttl time.Duration) error {
	fullKey := []byte(cooldownKeyPrefix + key)
	entry := badger.NewEntry(fullKey, []byte{1}).WithTTL(ttl)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	}); err != nil {
		return fmt.Errorf("ephemeral: start cooldown: %w", err)
	}
	return nil
}

func encodeInt64(v int64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func decodeInt64(b []byte) int64 {
	var v int64
	for i := 0; i < len(b) && i < 8; i++ {
		v |= int64(b[i]) << (8 * i)
	}
	return v
}

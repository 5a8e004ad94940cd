package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketState  = []byte("state")
	bucketEvents = []byte("events")
)

// BoltStore is a Store backed by a bbolt database.
// State lives in the "state" bucket; events in "events" keyed by big-endian sequence.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketState, bucketEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Get returns a copy of the value at key.
func (s *BoltStore) Get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketState).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Commit applies b in one bbolt read-write transaction.
func (s *BoltStore) Commit(b *Batch) error {
	if b == nil {
		return ErrNilParam
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		state := tx.Bucket(bucketState)
		for _, w := range b.Writes {
			if w.Delete {
				if err := state.Delete(w.Key); err != nil {
					return fmt.Errorf("ledger: delete state: %w", err)
				}
				continue
			}
			if err := state.Put(w.Key, w.Value); err != nil {
				return fmt.Errorf("ledger: put state: %w", err)
			}
		}
		events := tx.Bucket(bucketEvents)
		for _, ev := range b.Events {
			data, err := encodeGob(ev)
			if err != nil {
				return fmt.Errorf("ledger: encode event: %w", err)
			}
			if err := events.Put(seqKey(ev.Seq), data); err != nil {
				return fmt.Errorf("ledger: put event: %w", err)
			}
		}
		return nil
	})
}

// ForEachEvent iterates stored events in sequence order.
func (s *BoltStore) ForEachEvent(fn func(*Event) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(_, v []byte) error {
			var ev Event
			if err := decodeGob(v, &ev); err != nil {
				return fmt.Errorf("ledger: decode event: %w", err)
			}
			return fn(&ev)
		})
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// seqKey encodes a sequence number as an 8-byte big-endian key for sorted storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

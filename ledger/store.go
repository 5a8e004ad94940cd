package ledger

import (
	"sort"
	"sync"
)

// Store persists ledger state and the event log.
// Commit must apply a Batch atomically: either every write and event lands or none does.
type Store interface {
	// Get returns the value stored at key or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Commit atomically applies the writes and appends the events in b.
	Commit(b *Batch) error
	// ForEachEvent calls fn for every stored event in sequence order.
	ForEachEvent(fn func(*Event) error) error
	// Close releases the store.
	Close() error
}

// Write is a single state mutation in a Batch.
type Write struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Batch is the atomic unit committed to a Store by one ledger transaction.
type Batch struct {
	Writes []Write
	Events []*Event
}

// Put queues a value write.
func (b *Batch) Put(key, value []byte) {
	b.Writes = append(b.Writes, Write{Key: key, Value: value})
}

// Delete queues a key removal.
func (b *Batch) Delete(key []byte) {
	b.Writes = append(b.Writes, Write{Key: key, Delete: true})
}

// Len returns the number of writes and events in the batch.
func (b *Batch) Len() int { return len(b.Writes) + len(b.Events) }

// MemStore is an in-memory Store.
type MemStore struct {
	mu     sync.RWMutex
	state  map[string][]byte
	events []*Event
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{state: make(map[string][]byte)}
}

// Get returns a copy of the value at key.
func (s *MemStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Commit applies b under a single write lock.
func (s *MemStore) Commit(b *Batch) error {
	if b == nil {
		return ErrNilParam
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range b.Writes {
		if w.Delete {
			delete(s.state, string(w.Key))
			continue
		}
		s.state[string(w.Key)] = append([]byte(nil), w.Value...)
	}
	for _, ev := range b.Events {
		s.events = append(s.events, ev.clone())
	}
	return nil
}

// ForEachEvent iterates events in sequence order.
func (s *MemStore) ForEachEvent(fn func(*Event) error) error {
	s.mu.RLock()
	events := make([]*Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	sort.SliceStable(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
	for _, ev := range events {
		if err := fn(ev.clone()); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// Keys returns the number of state keys held. Used by tests.
func (s *MemStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}

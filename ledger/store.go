package ledger

import (
	"iter"
	"maps"
	"slices"
)

// AccountStore is the storage contract consumed by all transitions: a mapping from AccountID to V.
//
// All operations are synchronous. Callers must check Contains before Mutate, Mutate on an absent key
// fails with ErrMissingKey.
type AccountStore[V any] interface {
	Get(id AccountID) (V, bool)
	Contains(id AccountID) bool
	Insert(id AccountID, value V)
	Mutate(id AccountID, f func(V) V) error
	Remove(id AccountID)
}

// MemoryStore is an in-memory AccountStore.
// It is not safe for concurrent use, the host runs one transition at a time.
type MemoryStore[V any] struct {
	entries map[AccountID]V
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{entries: make(map[AccountID]V)}
}

// Get returns the value stored for id and whether it exists.
func (s *MemoryStore[V]) Get(id AccountID) (V, bool) {
	value, ok := s.entries[id]

	return value, ok
}

// Contains reports whether an entry exists for id.
func (s *MemoryStore[V]) Contains(id AccountID) bool {
	_, ok := s.entries[id]

	return ok
}

// Insert stores value for id, overwriting unconditionally.
func (s *MemoryStore[V]) Insert(id AccountID, value V) {
	s.entries[id] = value
}

// Mutate replaces the value stored for id with f(value).
func (s *MemoryStore[V]) Mutate(id AccountID, f func(V) V) error {
	value, ok := s.entries[id]
	if !ok {
		return ErrMissingKey
	}

	s.entries[id] = f(value)

	return nil
}

// Remove deletes the entry for id, it is a no-op if id is absent.
func (s *MemoryStore[V]) Remove(id AccountID) {
	delete(s.entries, id)
}

// Len returns the number of stored entries.
func (s *MemoryStore[V]) Len() int {
	return len(s.entries)
}

// All iterates over all entries ordered by AccountID.
func (s *MemoryStore[V]) All() iter.Seq2[AccountID, V] {
	return func(yield func(AccountID, V) bool) {
		for _, id := range slices.Sorted(maps.Keys(s.entries)) {
			if !yield(id, s.entries[id]) {
				return
			}
		}
	}
}

// Ensure MemoryStore implements AccountStore.
var _ AccountStore[Balance] = (*MemoryStore[Balance])(nil)

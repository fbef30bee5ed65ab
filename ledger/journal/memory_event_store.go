package journal

import (
	"context"
	"slices"
	"sync"
)

// MemoryEventStore is an in-process EventStore with the same optimistic concurrency semantics as the
// PostgreSQL engine. It suits tests and single-process hosts. It is safe for concurrent use.
type MemoryEventStore struct {
	mu     sync.Mutex
	events StorableEvents
}

// NewMemoryEventStore creates an empty MemoryEventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

// Query returns all events matching the filter in append order, plus the sequence number of the last one.
// Sequence numbers start at 1.
func (s *MemoryEventStore) Query(ctx context.Context, filter Filter) (StorableEvents, MaxSequenceNumberUint, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matching, maxSequenceNumber := s.matching(filter)

	return matching, maxSequenceNumber, nil
}

// Append appends the events atomically if no event matching the filter was appended after
// expectedMaxSequenceNumber, otherwise it fails with ErrConcurrencyConflict.
func (s *MemoryEventStore) Append(
	ctx context.Context,
	filter Filter,
	expectedMaxSequenceNumber MaxSequenceNumberUint,
	event StorableEvent,
	additionalEvents ...StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, maxSequenceNumber := s.matching(filter); maxSequenceNumber != expectedMaxSequenceNumber {
		return ErrConcurrencyConflict
	}

	s.events = append(s.events, event)
	s.events = append(s.events, additionalEvents...)

	return nil
}

// Len returns the number of stored events.
func (s *MemoryEventStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.events)
}

func (s *MemoryEventStore) matching(filter Filter) (StorableEvents, MaxSequenceNumberUint) {
	matching := make(StorableEvents, 0)
	maxSequenceNumber := MaxSequenceNumberUint(0)

	for i, event := range s.events {
		if filter.Matches(event) {
			matching = append(matching, cloneStorableEvent(event))
			maxSequenceNumber = MaxSequenceNumberUint(i + 1)
		}
	}

	return matching, maxSequenceNumber
}

func cloneStorableEvent(event StorableEvent) StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}

// Ensure MemoryEventStore implements EventStore.
var _ EventStore = (*MemoryEventStore)(nil)

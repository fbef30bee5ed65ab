package journal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

func Test_MemoryEventStore_QueryReturnsMatchingEventsInOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := journal.NewMemoryEventStore()
	now := time.Unix(0, 0)

	require.NoError(t, es.Append(ctx, journal.BalanceFilter("alice"), 0, toStorable(t, ledger.BuildDeposited("alice", 1, 1, now))))
	require.NoError(t, es.Append(ctx, journal.BalanceFilter("bob"), 0, toStorable(t, ledger.BuildDeposited("bob", 5, 5, now))))
	require.NoError(t, es.Append(ctx, journal.BalanceFilter("alice"), 1, toStorable(t, ledger.BuildDeposited("alice", 2, 3, now))))

	// act
	events, maxSequenceNumber, err := es.Query(ctx, journal.BalanceFilter("alice"))

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, journal.MaxSequenceNumberUint(3), maxSequenceNumber)

	history, err := journal.DomainEventsFrom(events)
	require.NoError(t, err)
	assert.Equal(t, ledger.Balance(1), history[0].(ledger.Deposited).Balance)
	assert.Equal(t, ledger.Balance(3), history[1].(ledger.Deposited).Balance)
}

func Test_MemoryEventStore_Append_WithStaleSequenceNumber_Fails(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := journal.NewMemoryEventStore()
	filter := journal.BalanceFilter("alice")
	event := toStorable(t, ledger.BuildDeposited("alice", 1, 1, time.Unix(0, 0)))
	require.NoError(t, es.Append(ctx, filter, 0, event))

	// act
	err := es.Append(ctx, filter, 0, event, event)

	// assert
	assert.ErrorIs(t, err, journal.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len(), "a conflicting append must not write anything")
}

func Test_MemoryEventStore_Append_OtherStreamsDoNotConflict(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := journal.NewMemoryEventStore()
	now := time.Unix(0, 0)
	require.NoError(t, es.Append(ctx, journal.BalanceFilter("bob"), 0, toStorable(t, ledger.BuildDeposited("bob", 1, 1, now))))

	// act
	err := es.Append(ctx, journal.BalanceFilter("alice"), 0, toStorable(t, ledger.BuildDeposited("alice", 1, 1, now)))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 2, es.Len())
}

func Test_MemoryEventStore_ConcurrentAppends_ExactlyOneWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := journal.NewMemoryEventStore()
	filter := journal.BalanceFilter("alice")
	event := toStorable(t, ledger.BuildDeposited("alice", 1, 1, time.Unix(0, 0)))

	const writers = 10
	errs := make(chan error, writers)
	var wg sync.WaitGroup

	// act
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- es.Append(ctx, filter, 0, event)
		}()
	}
	wg.Wait()
	close(errs)

	// assert
	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, journal.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, es.Len())
}

func Test_MemoryEventStore_CanceledContext_Fails(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	es := journal.NewMemoryEventStore()

	// act
	_, _, err := es.Query(ctx, journal.BalanceFilter("alice"))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
}

package postgresengine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

func givenEventStoreForQueryBuilding(t *testing.T, options ...Option) *EventStore {
	t.Helper()

	es, err := newEventStore(nil, options...)
	require.NoError(t, err, "error in arranging test data")

	return es
}

func givenStorableEvent(t *testing.T, eventType string) journal.StorableEvent {
	t.Helper()

	event, err := journal.BuildStorableEventWithEmptyMetadata(eventType, time.Unix(0, 0), []byte(`{"AccountID":"alice"}`))
	require.NoError(t, err, "error in arranging test data")

	return event
}

func Test_BuildSelectQuery_RestrictsToEventTypesAndAccounts(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)

	// act
	sqlQuery, err := es.buildSelectQuery(journal.BalanceFilter("alice"))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "ledger_events"`)
	assert.Contains(t, sqlQuery, `"event_type" IN ('Deposited', 'Withdrawn')`)
	assert.Contains(t, sqlQuery, `payload @> '{"AccountID":"alice"}'::jsonb`)
	assert.Contains(t, sqlQuery, `payload @> '{"ToAccountID":"alice"}'::jsonb`)
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
}

func Test_BuildSelectQuery_EscapesAccountIDs(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)

	// act
	sqlQuery, err := es.buildSelectQuery(journal.BalanceFilter(`o'hara"`))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `'{"AccountID":"o''hara\""}'::jsonb`)
}

func Test_BuildSelectQuery_WithEmptyFilter_SelectsEverything(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)

	// act
	sqlQuery, err := es.buildSelectQuery(journal.BuildFilter().Finalize())

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "WHERE")
}

func Test_BuildSelectQuery_UsesConfiguredTableName(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t, WithTableName("other_events"))

	// act
	sqlQuery, err := es.buildSelectQuery(journal.ClaimFilter("alice"))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "other_events"`)
}

func Test_BuildAppendQuery_GuardsOnExpectedMaxSequenceNumber(t *testing.T) {
	testCases := []struct {
		name   string
		events journal.StorableEvents
	}{
		{
			name:   "single event",
			events: journal.StorableEvents{givenStorableEvent(t, "Deposited")},
		},
		{
			name:   "multiple events",
			events: journal.StorableEvents{givenStorableEvent(t, "Deposited"), givenStorableEvent(t, "Withdrawn")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			es := givenEventStoreForQueryBuilding(t)

			// act
			sqlQuery, err := es.buildAppendQuery(tc.events, journal.BalanceFilter("alice"), 5)

			// assert
			require.NoError(t, err)
			assert.Contains(t, sqlQuery, `INSERT INTO "ledger_events"`)
			assert.Contains(t, sqlQuery, `MAX("sequence_number") AS "max_seq"`)
			assert.Contains(t, sqlQuery, `COALESCE("max_seq", 0) = 5`)
			assert.Contains(t, sqlQuery, `payload @> '{"AccountID":"alice"}'::jsonb`)
		})
	}
}

func Test_BuildAppendQuery_LocksTheFilteredAccountsFirst(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)
	events := journal.StorableEvents{givenStorableEvent(t, "TransferSuccessful")}

	// act
	sqlQuery, err := es.buildAppendQuery(events, journal.ClaimFilter("bob", "alice"), 0)

	// assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sqlQuery, "SELECT pg_advisory_xact_lock("))

	aliceLock := strings.Index(sqlQuery, `hashtextextended('ledger_events/alice', 0)`)
	bobLock := strings.Index(sqlQuery, `hashtextextended('ledger_events/bob', 0)`)
	insert := strings.Index(sqlQuery, "INSERT INTO")
	require.NotEqual(t, -1, aliceLock)
	require.NotEqual(t, -1, bobLock)
	assert.Less(t, aliceLock, bobLock, "locks are taken in sorted order")
	assert.Less(t, bobLock, insert, "locks are taken before the insert")
}

func Test_BuildAppendQuery_WithoutAccounts_DoesNotLock(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)

	// act
	sqlQuery, err := es.buildAppendQuery(
		journal.StorableEvents{givenStorableEvent(t, "Deposited")},
		journal.BuildFilter().OfEventTypes("Deposited").Finalize(),
		0,
	)

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "pg_advisory_xact_lock")
}

func Test_BuildAppendQuery_MultipleEvents_AreUnioned(t *testing.T) {
	// arrange
	es := givenEventStoreForQueryBuilding(t)
	events := journal.StorableEvents{givenStorableEvent(t, "Deposited"), givenStorableEvent(t, "Withdrawn")}

	// act
	sqlQuery, err := es.buildAppendQuery(events, journal.BalanceFilter("alice"), 0)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, "UNION ALL")
	assert.Contains(t, sqlQuery, `'Deposited'::text`)
	assert.Contains(t, sqlQuery, `'Withdrawn'::text`)
}

package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/helper"
)

func toStorable(t *testing.T, event ledger.DomainEvent) journal.StorableEvent {
	t.Helper()

	storableEvent, err := journal.StorableEventFrom(event, journal.EventMetadata{})
	require.NoError(t, err, "error in arranging test data")

	return storableEvent
}

func Test_FilterBuilder_SanitizesInput(t *testing.T) {
	// act
	filter := journal.BuildFilter().
		OfEventTypes("Withdrawn", "", "Deposited", "Withdrawn").
		ForAccounts("bob", "alice", "", "bob").
		Finalize()

	// assert
	assert.Equal(t, []ledger.EventTypeString{"Deposited", "Withdrawn"}, filter.EventTypes())
	assert.Equal(t, []ledger.AccountID{"alice", "bob"}, filter.AccountIDs())
}

func Test_FilterBuilder_IsReusable(t *testing.T) {
	// arrange
	base := journal.BuildFilter().OfEventTypes(ledger.DepositedEventType)

	// act
	forAlice := base.ForAccounts("alice").Finalize()
	forBob := base.ForAccounts("bob").Finalize()

	// assert
	assert.Equal(t, []ledger.AccountID{"alice"}, forAlice.AccountIDs())
	assert.Equal(t, []ledger.AccountID{"bob"}, forBob.AccountIDs())
	assert.Empty(t, base.Finalize().AccountIDs())
}

func Test_Filter_Matches(t *testing.T) {
	now := time.Unix(0, 0)
	deposited := toStorable(t, ledger.BuildDeposited("alice", 1, 1, now))
	transferred := toStorable(t, ledger.BuildTransferSuccessful(helper.FixtureToyotaClaim("carol"), "dave", now))

	testCases := []struct {
		description string
		filter      journal.Filter
		event       journal.StorableEvent
		expected    bool
	}{
		{"empty filter matches everything", journal.BuildFilter().Finalize(), deposited, true},
		{"matching event type and account", journal.BalanceFilter("alice"), deposited, true},
		{"other account", journal.BalanceFilter("bob"), deposited, false},
		{"other event type", journal.ClaimFilter("alice"), deposited, false},
		{"any of multiple accounts", journal.BalanceFilter("bob", "alice"), deposited, true},
		{"transfer source", journal.ClaimFilter("carol"), transferred, true},
		{"transfer destination", journal.ClaimFilter("dave"), transferred, true},
		{"unrelated to transfer", journal.ClaimFilter("erin"), transferred, false},
		{"event type only", journal.BuildFilter().OfEventTypes(ledger.TransferSuccessfulEventType).Finalize(), transferred, true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(tc.event))
		})
	}
}

package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/balanceledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/claimregistry"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/helper"
)

func Test_ProjectBalances_ReproducesLiveStore(t *testing.T) {
	// arrange
	live := ledger.NewMemoryStore[ledger.Balance]()
	l, err := balanceledger.New(live)
	require.NoError(t, err, "error in arranging test data")

	var history ledger.DomainEvents
	record := func(_ ledger.Balance, events ledger.DomainEvents, _ error) {
		history = append(history, events...)
	}

	record(l.Deposit("alice", 100))
	record(l.Deposit("bob", 7))
	record(l.Withdraw("alice", 100))
	record(l.Withdraw("bob", 8))
	record(l.Deposit("alice", 0))
	record(l.Deposit("carol", 3))
	record(l.Withdraw("carol", 1))

	// act
	projected := journal.ProjectBalances(history)

	// assert
	assert.Equal(t, live.Len(), projected.Len())
	for id, balance := range live.All() {
		projectedBalance, ok := projected.Get(id)
		assert.True(t, ok, "account %s missing in projection", id)
		assert.Equal(t, balance, projectedBalance)
	}
}

func Test_ProjectClaims_ReproducesLiveStore(t *testing.T) {
	// arrange
	live := ledger.NewMemoryStore[ledger.Claim]()
	r, err := claimregistry.New(live)
	require.NoError(t, err, "error in arranging test data")

	var history ledger.DomainEvents
	recordWithClaim := func(_ ledger.Claim, events ledger.DomainEvents, _ error) {
		history = append(history, events...)
	}
	record := func(events ledger.DomainEvents, _ error) {
		history = append(history, events...)
	}

	chassisNum, brandName, price := helper.FixtureToyotaClaimValues()
	recordWithClaim(r.Create("alice", chassisNum, brandName, price))
	recordWithClaim(r.Create("bob", nil, []byte("vw"), nil))
	record(r.Transfer("alice", "carol"))
	record(r.Transfer("bob", "carol"))
	recordWithClaim(r.Revoke("bob"))
	recordWithClaim(r.Create("alice", nil, []byte("bmw"), helper.U32(5)))
	record(r.Transfer("carol", "dave"))

	// act
	projected := journal.ProjectClaims(history)

	// assert
	assert.Equal(t, live.Len(), projected.Len())
	for id, claim := range live.All() {
		projectedClaim, ok := projected.Get(id)
		require.True(t, ok, "account %s missing in projection", id)
		assert.True(t, claim.Equal(projectedClaim))
	}
}

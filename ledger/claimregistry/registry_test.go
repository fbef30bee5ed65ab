package claimregistry_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/claimregistry"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/internal/observe"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/helper"
)

func givenRegistry(t *testing.T, options ...claimregistry.Option) (*claimregistry.ClaimRegistry, *ledger.MemoryStore[ledger.Claim]) {
	t.Helper()

	store := ledger.NewMemoryStore[ledger.Claim]()
	r, err := claimregistry.New(store, options...)
	require.NoError(t, err, "error in arranging test data")

	return r, store
}

func givenCreatedToyotaClaim(t *testing.T, r *claimregistry.ClaimRegistry, owner ledger.AccountID) {
	t.Helper()

	chassisNum, brandName, price := helper.FixtureToyotaClaimValues()
	_, _, err := r.Create(owner, chassisNum, brandName, price)
	require.NoError(t, err, "error in arranging test data")
}

func assertOwnerMatchesKey(t *testing.T, store *ledger.MemoryStore[ledger.Claim]) {
	t.Helper()

	for id, claim := range store.All() {
		assert.Equal(t, id, claim.Owner, "stored claim owner must equal its key")
	}
}

func Test_New_WithNilArguments_Fails(t *testing.T) {
	_, err := claimregistry.New(nil)
	assert.ErrorIs(t, err, ledger.ErrNilAccountStore)

	store := ledger.NewMemoryStore[ledger.Claim]()

	_, err = claimregistry.New(store, claimregistry.WithClock(nil))
	assert.ErrorIs(t, err, ledger.ErrNilClock)

	_, err = claimregistry.New(store, claimregistry.WithLogger(nil))
	assert.ErrorIs(t, err, ledger.ErrNilLogger)

	_, err = claimregistry.New(store, claimregistry.WithMetrics(nil))
	assert.ErrorIs(t, err, ledger.ErrNilMetricsCollector)
}

func Test_Create(t *testing.T) {
	// arrange
	clock := helper.NewFakeClock()
	r, store := givenRegistry(t, claimregistry.WithClock(clock.Now))
	a := helper.GivenUniqueAccountID(t)
	chassisNum, brandName, price := helper.FixtureToyotaClaimValues()

	// act
	claim, events, err := r.Create(a, chassisNum, brandName, price)

	// assert
	require.NoError(t, err)
	assert.True(t, claim.Equal(helper.FixtureToyotaClaim(a)))

	stored, ok := r.ClaimOf(a)
	require.True(t, ok)
	assert.True(t, stored.Equal(helper.FixtureToyotaClaim(a)))
	assertOwnerMatchesKey(t, store)

	require.Len(t, events, 1)
	created, ok := events[0].(ledger.ClaimCreated)
	require.True(t, ok)
	assert.Equal(t, ledger.ClaimCreatedEventType, created.EventType)
	assert.Equal(t, a, created.AccountID)
	assert.Equal(t, uint32(1234567), *created.ChassisNum)
	assert.Equal(t, []byte("toyota"), created.BrandName)
	assert.Equal(t, uint32(1000000), *created.Price)
	assert.True(t, created.Claim().Equal(claim))
}

func Test_Create_WithoutOptionalFields(t *testing.T) {
	// arrange
	r, _ := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)

	// act
	claim, events, err := r.Create(a, nil, []byte("trabant"), nil)

	// assert
	require.NoError(t, err)
	assert.Nil(t, claim.ChassisNum)
	assert.Nil(t, claim.Price)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].(ledger.ClaimCreated).ChassisNum)
	assert.Nil(t, events[0].(ledger.ClaimCreated).Price)
}

func Test_Create_CallerCannotAliasStoredBytes(t *testing.T) {
	// arrange
	r, _ := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)
	brandName := []byte("toyota")
	claim, _, err := r.Create(a, nil, brandName, nil)
	require.NoError(t, err, "error in arranging test data")

	// act
	brandName[0] = 'X'
	claim.BrandName[1] = 'Y'

	// assert
	stored, _ := r.ClaimOf(a)
	assert.Equal(t, []byte("toyota"), stored.BrandName)
}

func Test_Create_Twice_Fails(t *testing.T) {
	// arrange
	r, _ := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)
	givenCreatedToyotaClaim(t, r, a)

	// act
	_, events, err := r.Create(a, helper.U32(1), []byte("vw"), helper.U32(2))

	// assert
	assert.ErrorIs(t, err, ledger.ErrClaimAlreadyExists)
	assert.Empty(t, events)
	stored, _ := r.ClaimOf(a)
	assert.True(t, stored.Equal(helper.FixtureToyotaClaim(a)), "the existing claim must stay untouched")
}

func Test_Revoke(t *testing.T) {
	// arrange
	r, store := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)
	givenCreatedToyotaClaim(t, r, a)

	// act
	revoked, events, err := r.Revoke(a)

	// assert
	require.NoError(t, err)
	assert.True(t, revoked.Equal(helper.FixtureToyotaClaim(a)))
	assert.False(t, store.Contains(a))
	require.Len(t, events, 1)

	event, ok := events[0].(ledger.RevokeSuccessful)
	require.True(t, ok)
	assert.Equal(t, a, event.AccountID)
	assert.Equal(t, []byte("toyota"), event.BrandName)
}

func Test_Revoke_WithoutClaim_Fails(t *testing.T) {
	// arrange
	r, _ := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)

	// act
	_, events, err := r.Revoke(a)

	// assert
	assert.ErrorIs(t, err, ledger.ErrNoSuchOwner)
	assert.Empty(t, events)
}

func Test_Revoke_WithDivergingOwner_Fails(t *testing.T) {
	// arrange
	r, store := givenRegistry(t)
	store.Insert("alice", helper.FixtureToyotaClaim("mallory"))

	// act
	_, events, err := r.Revoke("alice")

	// assert
	assert.ErrorIs(t, err, ledger.ErrNotOwner)
	assert.Empty(t, events)
	assert.True(t, store.Contains("alice"))
}

func Test_Transfer(t *testing.T) {
	// arrange
	r, store := givenRegistry(t)
	a := helper.GivenUniqueAccountID(t)
	b := helper.GivenUniqueAccountID(t)
	givenCreatedToyotaClaim(t, r, a)

	// act
	events, err := r.Transfer(a, b)

	// assert
	require.NoError(t, err)

	_, ok := r.ClaimOf(a)
	assert.False(t, ok)

	claimOfB, ok := r.ClaimOf(b)
	require.True(t, ok)
	assert.True(t, claimOfB.Equal(helper.FixtureToyotaClaim(b)))
	assert.Equal(t, 1, store.Len())
	assertOwnerMatchesKey(t, store)

	require.Len(t, events, 1)
	transferred, ok := events[0].(ledger.TransferSuccessful)
	require.True(t, ok)
	assert.Equal(t, a, transferred.AccountID)
	assert.Equal(t, b, transferred.ToAccountID)
	assert.True(t, transferred.TransferredClaim().Equal(claimOfB))
}

func Test_Transfer_FailedPreconditions_LeaveBothAccountsUntouched(t *testing.T) {
	testCases := []struct {
		description string
		arrange     func(store *ledger.MemoryStore[ledger.Claim])
		from        ledger.AccountID
		to          ledger.AccountID
		expectedErr error
	}{
		{
			description: "same source and destination",
			arrange: func(store *ledger.MemoryStore[ledger.Claim]) {
				store.Insert("alice", helper.FixtureToyotaClaim("alice"))
			},
			from:        "alice",
			to:          "alice",
			expectedErr: ledger.ErrSameOwnerTransfer,
		},
		{
			description: "same source and destination without claim",
			arrange:     func(*ledger.MemoryStore[ledger.Claim]) {},
			from:        "alice",
			to:          "alice",
			expectedErr: ledger.ErrSameOwnerTransfer,
		},
		{
			description: "source holds no claim",
			arrange:     func(*ledger.MemoryStore[ledger.Claim]) {},
			from:        "alice",
			to:          "bob",
			expectedErr: ledger.ErrNoSuchOwner,
		},
		{
			description: "source holds no claim but destination does",
			arrange: func(store *ledger.MemoryStore[ledger.Claim]) {
				store.Insert("bob", helper.FixtureToyotaClaim("bob"))
			},
			from:        "alice",
			to:          "bob",
			expectedErr: ledger.ErrNoSuchOwner,
		},
		{
			description: "destination already owns a claim",
			arrange: func(store *ledger.MemoryStore[ledger.Claim]) {
				store.Insert("alice", helper.FixtureToyotaClaim("alice"))
				store.Insert("bob", ledger.BuildClaim("bob", nil, []byte("vw"), nil))
			},
			from:        "alice",
			to:          "bob",
			expectedErr: ledger.ErrDestinationAlreadyOwnsClaim,
		},
		{
			description: "stored owner diverges from source",
			arrange: func(store *ledger.MemoryStore[ledger.Claim]) {
				store.Insert("alice", helper.FixtureToyotaClaim("mallory"))
			},
			from:        "alice",
			to:          "bob",
			expectedErr: ledger.ErrNotOwner,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			r, store := givenRegistry(t)
			tc.arrange(store)
			fromBefore, fromExisted := store.Get(tc.from)
			toBefore, toExisted := store.Get(tc.to)

			// act
			events, err := r.Transfer(tc.from, tc.to)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, events)

			fromAfter, fromExists := store.Get(tc.from)
			toAfter, toExists := store.Get(tc.to)
			assert.Equal(t, fromExisted, fromExists)
			assert.Equal(t, toExisted, toExists)
			assert.True(t, fromBefore.Equal(fromAfter))
			assert.True(t, toBefore.Equal(toAfter))
		})
	}
}

func Test_Scenario_CreateTransferLookup(t *testing.T) {
	// arrange
	r, store := givenRegistry(t)
	chassisNum, brandName, price := helper.FixtureToyotaClaimValues()

	// act
	_, _, createErr := r.Create("A", chassisNum, brandName, price)
	_, transferErr := r.Transfer("A", "B")
	_, aHasClaim := r.ClaimOf("A")
	claimOfB, bHasClaim := r.ClaimOf("B")

	// assert
	require.NoError(t, createErr)
	require.NoError(t, transferErr)
	assert.False(t, aHasClaim)
	require.True(t, bHasClaim)
	assert.Equal(t, ledger.AccountID("B"), claimOfB.Owner)
	assert.Equal(t, uint32(1234567), *claimOfB.ChassisNum)
	assert.Equal(t, []byte("toyota"), claimOfB.BrandName)
	assert.Equal(t, uint32(1000000), *claimOfB.Price)
	assertOwnerMatchesKey(t, store)
}

func Test_OperationSequences_KeepOwnerEqualToKey(t *testing.T) {
	// arrange
	r, store := givenRegistry(t)
	accounts := []ledger.AccountID{"a", "b", "c"}

	// act
	for i := range 30 {
		from := accounts[i%3]
		to := accounts[(i+1)%3]

		switch i % 4 {
		case 0:
			_, _, _ = r.Create(from, helper.U32(uint32(i)), []byte("brand"), nil)
		case 1:
			_, _ = r.Transfer(from, to)
		case 2:
			_, _ = r.Transfer(to, from)
		case 3:
			_, _, _ = r.Revoke(to)
		}

		// assert
		assertOwnerMatchesKey(t, store)
		assert.LessOrEqual(t, store.Len(), len(accounts))
	}
}

func Test_ObservesTransitions(t *testing.T) {
	// arrange
	logHandlerSpy := helper.NewLogHandlerSpy(false)
	metricsSpy := helper.NewMetricsCollectorSpy()
	r, _ := givenRegistry(t,
		claimregistry.WithLogger(slog.New(logHandlerSpy)),
		claimregistry.WithMetrics(metricsSpy),
	)
	givenCreatedToyotaClaim(t, r, "alice")

	// act
	_, _ = r.Transfer("alice", "alice")
	_, _ = r.Transfer("alice", "bob")

	// assert
	assert.True(t, logHandlerSpy.HasInfoLogWithMessage("ledger operation: transfer_claim").
		WithAttr(observe.LogAttrAccountID, "alice").
		WithAttr(observe.LogAttrToAccountID, "bob").
		Assert())
	assert.True(t, logHandlerSpy.HasInfoLogWithMessage("transition rejected").
		WithAttr(observe.LogAttrError, ledger.ErrSameOwnerTransfer.Error()).
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordWithLabels(observe.MetricTransitions, map[string]string{
		observe.LabelOperation: "create_claim",
		observe.LabelStatus:    observe.StatusSuccess,
	}))
	assert.True(t, metricsSpy.HasCounterRecordWithLabels(observe.MetricTransitionRejections, map[string]string{
		observe.LabelOperation: "transfer_claim",
		observe.LabelErrorType: "same_owner_transfer",
	}))
	assert.Empty(t, metricsSpy.GetValueRecords())
}

package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/helper"
)

func Test_BuildClaim_CopiesReferencedValues(t *testing.T) {
	// arrange
	chassisNum, brandName, price := helper.FixtureToyotaClaimValues()

	// act
	claim := ledger.BuildClaim("alice", chassisNum, brandName, price)
	*chassisNum = 1
	brandName[0] = 'X'
	*price = 2

	// assert
	assert.Equal(t, uint32(1234567), *claim.ChassisNum)
	assert.Equal(t, []byte("toyota"), claim.BrandName)
	assert.Equal(t, uint32(1000000), *claim.Price)
	assert.Equal(t, ledger.AccountID("alice"), claim.Owner)
}

func Test_Claim_WithOwner_KeepsAllOtherFields(t *testing.T) {
	// arrange
	claim := helper.FixtureToyotaClaim("alice")

	// act
	transferred := claim.WithOwner("bob")

	// assert
	assert.Equal(t, ledger.AccountID("bob"), transferred.Owner)
	assert.Equal(t, ledger.AccountID("alice"), claim.Owner)
	assert.True(t, transferred.Equal(helper.FixtureToyotaClaim("bob")))
}

func Test_Claim_Equal(t *testing.T) {
	base := ledger.BuildClaim("alice", helper.U32(1), []byte("vw"), helper.U32(2))

	testCases := []struct {
		description string
		other       ledger.Claim
		expected    bool
	}{
		{"identical values", ledger.BuildClaim("alice", helper.U32(1), []byte("vw"), helper.U32(2)), true},
		{"other owner", ledger.BuildClaim("bob", helper.U32(1), []byte("vw"), helper.U32(2)), false},
		{"other chassis number", ledger.BuildClaim("alice", helper.U32(9), []byte("vw"), helper.U32(2)), false},
		{"absent chassis number", ledger.BuildClaim("alice", nil, []byte("vw"), helper.U32(2)), false},
		{"other brand name", ledger.BuildClaim("alice", helper.U32(1), []byte("bmw"), helper.U32(2)), false},
		{"absent price", ledger.BuildClaim("alice", helper.U32(1), []byte("vw"), nil), false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, base.Equal(tc.other))
			assert.Equal(t, tc.expected, tc.other.Equal(base))
		})
	}
}

func Test_Claim_Equal_BothOptionalFieldsAbsent(t *testing.T) {
	a := ledger.BuildClaim("alice", nil, nil, nil)
	b := ledger.BuildClaim("alice", nil, []byte{}, nil)

	assert.True(t, a.Equal(b))
}

func Test_BuildTransferSuccessful_TransferredClaim(t *testing.T) {
	// arrange
	claim := helper.FixtureToyotaClaim("alice")

	// act
	event := ledger.BuildTransferSuccessful(claim, "bob", time.Now())

	// assert
	assert.Equal(t, ledger.AccountID("alice"), event.AccountID)
	assert.Equal(t, ledger.AccountID("bob"), event.ToAccountID)
	assert.Equal(t, []ledger.AccountID{"alice", "bob"}, event.AccountIDs())
	assert.True(t, event.TransferredClaim().Equal(claim.WithOwner("bob")))
}

func Test_BuildDeposited_NormalizesOccurredAt(t *testing.T) {
	// arrange
	local := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.FixedZone("CEST", 2*60*60))

	// act
	event := ledger.BuildDeposited("alice", 100, 100, local)

	// assert
	assert.Equal(t, time.UTC, event.HasOccurredAt().Location())
	assert.Equal(t, 123456000, event.HasOccurredAt().Nanosecond())
	assert.True(t, local.Truncate(time.Microsecond).Equal(event.OccurredAt))
	assert.Equal(t, ledger.DepositedEventType, event.IsEventType())
}

package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// GivenUniqueAccountID creates a new random AccountID.
func GivenUniqueAccountID(t testing.TB) ledger.AccountID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return ledger.BuildAccountID(id)
}

// FakeClock is a deterministic clock advancing by one second on every call.
type FakeClock struct {
	now time.Time
}

// NewFakeClock creates a FakeClock starting at the Unix epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0).UTC()}
}

// Now advances the clock and returns the new time.
func (c *FakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)

	return c.now
}

// U32 returns a pointer to v, for optional claim fields.
func U32(v uint32) *uint32 {
	return &v
}

// FixtureToyotaClaimValues returns the values of the claim used throughout the registry tests.
func FixtureToyotaClaimValues() (chassisNum *uint32, brandName []byte, price *uint32) {
	return U32(1234567), []byte("toyota"), U32(1000000)
}

// FixtureToyotaClaim returns the fixture claim owned by owner.
func FixtureToyotaClaim(owner ledger.AccountID) ledger.Claim {
	chassisNum, brandName, price := FixtureToyotaClaimValues()

	return ledger.BuildClaim(owner, chassisNum, brandName, price)
}

package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// AccountID is the opaque identity of a ledger participant. Equality defines identity.
type AccountID string

// BuildAccountID creates an AccountID from a UUID.
func BuildAccountID(id uuid.UUID) AccountID {
	return AccountID(id.String())
}

// String returns the raw identity.
func (id AccountID) String() string {
	return string(id)
}

// Balance is an unsigned unit value without a fractional component.
type Balance uint64

// MaxBalance is the largest representable Balance.
const MaxBalance = Balance(math.MaxUint64)

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

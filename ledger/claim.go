package ledger

import (
	"bytes"
	"slices"
)

// Claim is the ownership record of a single tracked asset.
//
// Claims are stored keyed by their owner, so Owner must always equal the key it is stored under.
// ChassisNum and Price are optional and stay nil when the creator did not supply them.
type Claim struct {
	ChassisNum *uint32
	BrandName  []byte
	Price      *uint32
	Owner      AccountID
}

// BuildClaim creates a Claim owning private copies of all referenced values.
func BuildClaim(owner AccountID, chassisNum *uint32, brandName []byte, price *uint32) Claim {
	return Claim{
		ChassisNum: copyUint32(chassisNum),
		BrandName:  slices.Clone(brandName),
		Price:      copyUint32(price),
		Owner:      owner,
	}
}

// Clone returns a deep copy of the claim.
func (c Claim) Clone() Claim {
	return BuildClaim(c.Owner, c.ChassisNum, c.BrandName, c.Price)
}

// WithOwner returns a copy of the claim re-assigned to the given owner.
func (c Claim) WithOwner(owner AccountID) Claim {
	return BuildClaim(owner, c.ChassisNum, c.BrandName, c.Price)
}

// Equal reports whether both claims hold the same values.
func (c Claim) Equal(other Claim) bool {
	return c.Owner == other.Owner &&
		bytes.Equal(c.BrandName, other.BrandName) &&
		equalUint32(c.ChassisNum, other.ChassisNum) &&
		equalUint32(c.Price, other.Price)
}

func copyUint32(v *uint32) *uint32 {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

func equalUint32(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

package ledger

import (
	"time"
)

const (
	// ClaimCreatedEventType is the event type identifier of ClaimCreated.
	ClaimCreatedEventType = "ClaimCreated"

	// RevokeSuccessfulEventType is the event type identifier of RevokeSuccessful.
	RevokeSuccessfulEventType = "RevokeSuccessful"

	// TransferSuccessfulEventType is the event type identifier of TransferSuccessful.
	TransferSuccessfulEventType = "TransferSuccessful"
)

// ClaimCreated represents a new claim registered for AccountID.
type ClaimCreated struct {
	EventType  EventTypeString
	AccountID  AccountID
	ChassisNum *uint32
	BrandName  []byte
	Price      *uint32
	OccurredAt OccurredAt
}

// BuildClaimCreated creates a new ClaimCreated event from the created claim.
func BuildClaimCreated(claim Claim, occurredAt time.Time) ClaimCreated {
	c := claim.Clone()

	return ClaimCreated{
		EventType:  ClaimCreatedEventType,
		AccountID:  c.Owner,
		ChassisNum: c.ChassisNum,
		BrandName:  c.BrandName,
		Price:      c.Price,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ClaimCreated) IsEventType() string {
	return ClaimCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ClaimCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountIDs returns the new owner.
func (e ClaimCreated) AccountIDs() []AccountID {
	return []AccountID{e.AccountID}
}

// Claim reconstructs the created claim.
func (e ClaimCreated) Claim() Claim {
	return BuildClaim(e.AccountID, e.ChassisNum, e.BrandName, e.Price)
}

// RevokeSuccessful represents a claim removed by its owner AccountID.
type RevokeSuccessful struct {
	EventType  EventTypeString
	AccountID  AccountID
	ChassisNum *uint32
	BrandName  []byte
	Price      *uint32
	OccurredAt OccurredAt
}

// BuildRevokeSuccessful creates a new RevokeSuccessful event from the removed claim.
func BuildRevokeSuccessful(claim Claim, occurredAt time.Time) RevokeSuccessful {
	c := claim.Clone()

	return RevokeSuccessful{
		EventType:  RevokeSuccessfulEventType,
		AccountID:  c.Owner,
		ChassisNum: c.ChassisNum,
		BrandName:  c.BrandName,
		Price:      c.Price,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e RevokeSuccessful) IsEventType() string {
	return RevokeSuccessfulEventType
}

// HasOccurredAt returns when this event occurred.
func (e RevokeSuccessful) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountIDs returns the former owner.
func (e RevokeSuccessful) AccountIDs() []AccountID {
	return []AccountID{e.AccountID}
}

// TransferSuccessful represents a claim re-keyed from AccountID to ToAccountID.
// The claim fields are the ones of the claim before the transfer.
type TransferSuccessful struct {
	EventType   EventTypeString
	AccountID   AccountID
	ToAccountID AccountID
	ChassisNum  *uint32
	BrandName   []byte
	Price       *uint32
	OccurredAt  OccurredAt
}

// BuildTransferSuccessful creates a new TransferSuccessful event from the claim as it was before the transfer.
func BuildTransferSuccessful(claim Claim, to AccountID, occurredAt time.Time) TransferSuccessful {
	c := claim.Clone()

	return TransferSuccessful{
		EventType:   TransferSuccessfulEventType,
		AccountID:   c.Owner,
		ToAccountID: to,
		ChassisNum:  c.ChassisNum,
		BrandName:   c.BrandName,
		Price:       c.Price,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e TransferSuccessful) IsEventType() string {
	return TransferSuccessfulEventType
}

// HasOccurredAt returns when this event occurred.
func (e TransferSuccessful) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountIDs returns the source and the destination account.
func (e TransferSuccessful) AccountIDs() []AccountID {
	return []AccountID{e.AccountID, e.ToAccountID}
}

// TransferredClaim reconstructs the claim as it is stored after the transfer.
func (e TransferSuccessful) TransferredClaim() Claim {
	return BuildClaim(e.ToAccountID, e.ChassisNum, e.BrandName, e.Price)
}

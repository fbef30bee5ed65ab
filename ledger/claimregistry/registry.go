package claimregistry

import (
	"time"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/internal/observe"
)

const (
	operationCreate   = "create_claim"
	operationRevoke   = "revoke_claim"
	operationTransfer = "transfer_claim"
)

// ClaimRegistry mutates claims through the Create, Revoke and Transfer transitions.
type ClaimRegistry struct {
	store    ledger.AccountStore[ledger.Claim]
	clock    func() time.Time
	observer observe.Observer
}

// New creates a ClaimRegistry on top of the given store with optional configuration.
func New(store ledger.AccountStore[ledger.Claim], options ...Option) (*ClaimRegistry, error) {
	if store == nil {
		return nil, ledger.ErrNilAccountStore
	}

	r := &ClaimRegistry{
		store: store,
		clock: time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ClaimOf returns a copy of the claim held by id, if any.
func (r *ClaimRegistry) ClaimOf(id ledger.AccountID) (ledger.Claim, bool) {
	claim, ok := r.store.Get(id)
	if !ok {
		return ledger.Claim{}, false
	}

	return claim.Clone(), true
}

// Create registers a new claim owned by owner.
// Fails with ledger.ErrClaimAlreadyExists if owner already holds a claim.
func (r *ClaimRegistry) Create(
	owner ledger.AccountID,
	chassisNum *uint32,
	brandName []byte,
	price *uint32,
) (ledger.Claim, ledger.DomainEvents, error) {

	if r.store.Contains(owner) {
		return ledger.Claim{}, nil, r.reject(operationCreate, ledger.ErrClaimAlreadyExists, observe.LogAttrAccountID, owner.String())
	}

	claim := ledger.BuildClaim(owner, chassisNum, brandName, price)
	r.store.Insert(owner, claim)

	event := ledger.BuildClaimCreated(claim, r.clock())
	r.observer.Succeeded(operationCreate, observe.LogAttrAccountID, owner.String())

	return claim.Clone(), ledger.DomainEvents{event}, nil
}

// Revoke removes the claim held by caller and returns it.
//
// Fails with ledger.ErrNoSuchOwner if caller holds no claim and with ledger.ErrNotOwner if the stored
// claim's owner differs from caller.
func (r *ClaimRegistry) Revoke(caller ledger.AccountID) (ledger.Claim, ledger.DomainEvents, error) {
	claim, ok := r.store.Get(caller)
	if !ok {
		return ledger.Claim{}, nil, r.reject(operationRevoke, ledger.ErrNoSuchOwner, observe.LogAttrAccountID, caller.String())
	}

	if claim.Owner != caller {
		return ledger.Claim{}, nil, r.reject(operationRevoke, ledger.ErrNotOwner, observe.LogAttrAccountID, caller.String())
	}

	r.store.Remove(caller)

	event := ledger.BuildRevokeSuccessful(claim, r.clock())
	r.observer.Succeeded(operationRevoke, observe.LogAttrAccountID, caller.String())

	return claim.Clone(), ledger.DomainEvents{event}, nil
}

// Transfer moves the claim held by from to the account to.
//
// Preconditions are checked in order, the first failing one wins:
// ledger.ErrSameOwnerTransfer if from equals to, ledger.ErrNoSuchOwner if from holds no claim,
// ledger.ErrDestinationAlreadyOwnsClaim if to holds a claim, ledger.ErrNotOwner if the stored claim's
// owner differs from from.
func (r *ClaimRegistry) Transfer(from ledger.AccountID, to ledger.AccountID) (ledger.DomainEvents, error) {
	args := []any{observe.LogAttrAccountID, from.String(), observe.LogAttrToAccountID, to.String()}

	if from == to {
		return nil, r.reject(operationTransfer, ledger.ErrSameOwnerTransfer, args...)
	}

	claim, ok := r.store.Get(from)
	if !ok {
		return nil, r.reject(operationTransfer, ledger.ErrNoSuchOwner, args...)
	}

	if r.store.Contains(to) {
		return nil, r.reject(operationTransfer, ledger.ErrDestinationAlreadyOwnsClaim, args...)
	}

	if claim.Owner != from {
		return nil, r.reject(operationTransfer, ledger.ErrNotOwner, args...)
	}

	r.store.Remove(from)
	r.store.Insert(to, claim.WithOwner(to))

	event := ledger.BuildTransferSuccessful(claim, to, r.clock())
	r.observer.Succeeded(operationTransfer, args...)

	return ledger.DomainEvents{event}, nil
}

func (r *ClaimRegistry) reject(operation string, err error, args ...any) error {
	r.observer.Rejected(operation, err, args...)

	return err
}

// Package ledger provides the core abstractions of an account-keyed state ledger.
//
// The ledger is a key-value store keyed by account identity which is only ever mutated through
// validated state transitions. A transition checks all of its preconditions first, then mutates the
// store, then emits exactly one domain event. A failed transition returns a typed error and leaves
// the store untouched, so no partial update is ever observable.
//
// Two transition families are built on top of this package:
//   - balanceledger: numeric balances with Deposit and Withdraw
//   - claimregistry: single-owner asset claims with Create, Revoke and Transfer
//
// Key types:
//   - AccountID: opaque identity of a ledger participant
//   - Balance: unsigned unit value, never negative
//   - Claim: ownership record of one tracked asset, keyed by its current owner
//   - AccountStore: the storage contract both families consume
//   - MemoryStore: the in-memory AccountStore implementation
//   - DomainEvent: what a successful transition emits
//
// Common usage pattern:
//
//	store := ledger.NewMemoryStore[ledger.Balance]()
//	balances, _ := balanceledger.New(store, balanceledger.WithLogger(slog.Default()))
//
//	newBalance, events, err := balances.Deposit(accountID, 100)
//	if err != nil {
//		// errors.Is(err, ledger.ErrInvalidAmount), ledger.ErrOverflow, ...
//	}
package ledger

package ledger

import (
	"errors"
)

// Transition errors. Every one of them is returned before any store mutation happens.
var (
	// ErrInvalidAmount is returned when an amount is zero.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrNoSuchOwner is returned when a transition targets an account without the required entry.
	ErrNoSuchOwner = errors.New("account holds no entry")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOverflow is returned when an addition would exceed MaxBalance.
	ErrOverflow = errors.New("balance overflow")

	// ErrClaimAlreadyExists is returned when creating a claim for an account which already holds one.
	ErrClaimAlreadyExists = errors.New("claim already exists")

	// ErrNotOwner is returned when a stored claim's owner does not match the acting account.
	ErrNotOwner = errors.New("caller is not the claim owner")

	// ErrSameOwnerTransfer is returned when a transfer's source and destination are equal.
	ErrSameOwnerTransfer = errors.New("transfer source and destination are the same account")

	// ErrDestinationAlreadyOwnsClaim is returned when a transfer destination already holds a claim.
	ErrDestinationAlreadyOwnsClaim = errors.New("transfer destination already owns a claim")

	// ErrMissingKey is returned by AccountStore.Mutate for an absent key.
	ErrMissingKey = errors.New("mutate called for a missing key")

	// ErrImbalanceMismatch is returned when a Currency settles a different amount than requested.
	ErrImbalanceMismatch = errors.New("currency settled a different amount than requested")
)

// Construction errors.
var (
	// ErrNilAccountStore is returned when a ledger or registry is created without a store.
	ErrNilAccountStore = errors.New("account store must not be nil")

	// ErrNilCurrency is returned when a nil Currency is passed as an option.
	ErrNilCurrency = errors.New("currency must not be nil")

	// ErrNilClock is returned when a nil clock function is passed as an option.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrNilLogger is returned when a nil Logger is passed as an option.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrNilMetricsCollector is returned when a nil MetricsCollector is passed as an option.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")
)

package ledger

import (
	"time"
)

const (
	// DepositedEventType is the event type identifier of Deposited.
	DepositedEventType = "Deposited"

	// WithdrawnEventType is the event type identifier of Withdrawn.
	WithdrawnEventType = "Withdrawn"
)

// Deposited represents an amount credited to an account. Balance is the resulting balance.
type Deposited struct {
	EventType  EventTypeString
	AccountID  AccountID
	Amount     Balance
	Balance    Balance
	OccurredAt OccurredAt
}

// BuildDeposited creates a new Deposited event.
func BuildDeposited(who AccountID, amount Balance, newBalance Balance, occurredAt time.Time) Deposited {
	return Deposited{
		EventType:  DepositedEventType,
		AccountID:  who,
		Amount:     amount,
		Balance:    newBalance,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e Deposited) IsEventType() string {
	return DepositedEventType
}

// HasOccurredAt returns when this event occurred.
func (e Deposited) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountIDs returns the credited account.
func (e Deposited) AccountIDs() []AccountID {
	return []AccountID{e.AccountID}
}

// Withdrawn represents an amount debited from an account. Balance is the resulting balance.
type Withdrawn struct {
	EventType  EventTypeString
	AccountID  AccountID
	Amount     Balance
	Balance    Balance
	OccurredAt OccurredAt
}

// BuildWithdrawn creates a new Withdrawn event.
func BuildWithdrawn(who AccountID, amount Balance, newBalance Balance, occurredAt time.Time) Withdrawn {
	return Withdrawn{
		EventType:  WithdrawnEventType,
		AccountID:  who,
		Amount:     amount,
		Balance:    newBalance,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e Withdrawn) IsEventType() string {
	return WithdrawnEventType
}

// HasOccurredAt returns when this event occurred.
func (e Withdrawn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// AccountIDs returns the debited account.
func (e Withdrawn) AccountIDs() []AccountID {
	return []AccountID{e.AccountID}
}

package ledger

import (
	"time"
)

// EventTypeString represents the type identifier of a domain event.
type EventTypeString = string

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents something that happened as the result of a successful transition.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// AccountIDs returns all accounts whose state this event changed.
	AccountIDs() []AccountID
}

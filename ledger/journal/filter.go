package journal

import (
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// JSON payload keys holding the accounts an event touches.
const (
	PayloadKeyAccountID   = "AccountID"
	PayloadKeyToAccountID = "ToAccountID"
)

/***** Filter *****/

// Filter selects the events relevant to a transition: any of the event types AND any of the accounts.
//
// An account matches if it is the event's AccountID or its ToAccountID, so transfers show up in the history
// of both accounts. An empty list places no restriction.
type Filter struct {
	eventTypes []ledger.EventTypeString
	accountIDs []ledger.AccountID
}

// EventTypes returns the sanitized event types of the filter.
func (f Filter) EventTypes() []ledger.EventTypeString {
	return f.eventTypes
}

// AccountIDs returns the sanitized accounts of the filter.
func (f Filter) AccountIDs() []ledger.AccountID {
	return f.accountIDs
}

// Matches reports whether the StorableEvent is selected by the filter.
func (f Filter) Matches(event StorableEvent) bool {
	if len(f.eventTypes) > 0 && !slices.Contains(f.eventTypes, event.EventType) {
		return false
	}

	if len(f.accountIDs) == 0 {
		return true
	}

	for _, key := range []string{PayloadKeyAccountID, PayloadKeyToAccountID} {
		value := jsoniter.Get(event.PayloadJSON, key).ToString()
		if value != "" && slices.Contains(f.accountIDs, ledger.AccountID(value)) {
			return true
		}
	}

	return false
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter. Every method returns a new builder, so partial builders can be reused.
type FilterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize().
func BuildFilter() FilterBuilder {
	return FilterBuilder{}
}

// OfEventTypes adds event types to the filter, any of them must match.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func (fb FilterBuilder) OfEventTypes(eventTypes ...ledger.EventTypeString) FilterBuilder {
	all := append(slices.Clone(fb.filter.eventTypes), eventTypes...)
	all = slices.DeleteFunc(all, func(e ledger.EventTypeString) bool { return e == "" })
	slices.Sort(all)
	fb.filter.eventTypes = slices.Clip(slices.Compact(all))

	return fb
}

// ForAccounts adds accounts to the filter, any of them must match.
// It sanitizes the input like OfEventTypes.
func (fb FilterBuilder) ForAccounts(accountIDs ...ledger.AccountID) FilterBuilder {
	all := append(slices.Clone(fb.filter.accountIDs), accountIDs...)
	all = slices.DeleteFunc(all, func(id ledger.AccountID) bool { return id == "" })
	slices.Sort(all)
	fb.filter.accountIDs = slices.Clip(slices.Compact(all))

	return fb
}

// Finalize returns the built Filter.
func (fb FilterBuilder) Finalize() Filter {
	return fb.filter
}

// BalanceFilter selects the balance history of the given accounts.
func BalanceFilter(accountIDs ...ledger.AccountID) Filter {
	return BuildFilter().
		OfEventTypes(ledger.DepositedEventType, ledger.WithdrawnEventType).
		ForAccounts(accountIDs...).
		Finalize()
}

// ClaimFilter selects the claim history of the given accounts.
func ClaimFilter(accountIDs ...ledger.AccountID) Filter {
	return BuildFilter().
		OfEventTypes(
			ledger.ClaimCreatedEventType,
			ledger.RevokeSuccessfulEventType,
			ledger.TransferSuccessfulEventType,
		).
		ForAccounts(accountIDs...).
		Finalize()
}

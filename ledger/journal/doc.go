// Package journal makes the ledger transitions durable by recording their domain events in an event store.
//
// The transitions themselves stay pure and synchronous. The journal runs them on state projected from the
// recorded history of the affected accounts and appends the emitted events guarded by the max sequence number
// observed during the query, so concurrent writers touching the same accounts are detected.
//
// Key types:
//   - StorableEvent: the scalar DTO an EventStore persists
//   - Filter: selects the history relevant to a transition (event types and accounts)
//   - EventMetadata: message, causation and correlation IDs stored next to each event
//   - CommandHandler: Query -> Project -> Transition -> Append
//
// Common usage pattern:
//
//	handler, _ := journal.NewCommandHandler(eventStore, journal.WithLogger(logger))
//	balance, err := handler.Deposit(ctx, accountID, 100)
//	if errors.Is(err, journal.ErrConcurrencyConflict) {
//		// another writer changed the account's history in between, re-submit if desired
//	}
package journal

// Package claimregistry implements the single-owner asset claim registry.
//
// Claims are stored keyed by their current owner, so an account holds at most one claim and a transfer
// re-keys the claim from the source to the destination account. Every transition validates all of its
// preconditions before touching the store and returns the emitted events to the caller.
package claimregistry

package journal

import (
	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// ProjectBalances replays balance events into a fresh store.
// Every balance event carries the resulting balance, so the last event per account wins.
func ProjectBalances(history ledger.DomainEvents) *ledger.MemoryStore[ledger.Balance] {
	store := ledger.NewMemoryStore[ledger.Balance]()

	for _, event := range history {
		switch e := event.(type) {
		case ledger.Deposited:
			store.Insert(e.AccountID, e.Balance)
		case ledger.Withdrawn:
			store.Insert(e.AccountID, e.Balance)
		}
	}

	return store
}

// ProjectClaims replays claim events into a fresh store.
func ProjectClaims(history ledger.DomainEvents) *ledger.MemoryStore[ledger.Claim] {
	store := ledger.NewMemoryStore[ledger.Claim]()

	for _, event := range history {
		switch e := event.(type) {
		case ledger.ClaimCreated:
			store.Insert(e.AccountID, e.Claim())
		case ledger.RevokeSuccessful:
			store.Remove(e.AccountID)
		case ledger.TransferSuccessful:
			store.Remove(e.AccountID)
			store.Insert(e.ToAccountID, e.TransferredClaim())
		}
	}

	return store
}

package ledger

// Currency is the capability a BalanceLedger settles its deposits and withdrawals against.
//
// Mint is called for a deposit and Burn for a withdrawal, both after the ledger's own checks passed and
// before the store is mutated. An error aborts the transition without mutation.
// The returned Imbalance must carry exactly the requested amount, otherwise the ledger reverts it and
// rejects the transition with ErrImbalanceMismatch. A failed store write is reverted the same way.
type Currency interface {
	Mint(amount Balance) (Imbalance, error)
	Burn(amount Balance) (Imbalance, error)
}

// Imbalance is an amount minted or burned by a Currency that is pending settlement in the ledger.
type Imbalance struct {
	amount Balance
}

// BuildImbalance creates an Imbalance for the given amount.
func BuildImbalance(amount Balance) Imbalance {
	return Imbalance{amount: amount}
}

// Peek returns the amount of the imbalance.
func (i Imbalance) Peek() Balance {
	return i.amount
}

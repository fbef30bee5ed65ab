package currency

import (
	"math/bits"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// Issuance is a ledger.Currency which accounts for the total issued supply.
// Like the stores it settles against, it is not safe for concurrent use.
type Issuance struct {
	total ledger.Balance
}

// NewIssuance creates an Issuance with the given initial supply.
func NewIssuance(initialSupply ledger.Balance) *Issuance {
	return &Issuance{total: initialSupply}
}

// Mint adds amount to the supply. Fails with ledger.ErrInvalidAmount for a zero amount and with
// ledger.ErrOverflow if the supply would exceed ledger.MaxBalance.
func (i *Issuance) Mint(amount ledger.Balance) (ledger.Imbalance, error) {
	if amount == 0 {
		return ledger.Imbalance{}, ledger.ErrInvalidAmount
	}

	total, carry := bits.Add64(uint64(i.total), uint64(amount), 0)
	if carry != 0 {
		return ledger.Imbalance{}, ledger.ErrOverflow
	}

	i.total = ledger.Balance(total)

	return ledger.BuildImbalance(amount), nil
}

// Burn removes amount from the supply. Fails with ledger.ErrInvalidAmount for a zero amount and with
// ledger.ErrInsufficientFunds if amount exceeds the supply.
func (i *Issuance) Burn(amount ledger.Balance) (ledger.Imbalance, error) {
	if amount == 0 {
		return ledger.Imbalance{}, ledger.ErrInvalidAmount
	}

	if amount > i.total {
		return ledger.Imbalance{}, ledger.ErrInsufficientFunds
	}

	i.total -= amount

	return ledger.BuildImbalance(amount), nil
}

// TotalIssuance returns the current supply.
func (i *Issuance) TotalIssuance() ledger.Balance {
	return i.total
}

// Ensure Issuance implements ledger.Currency.
var _ ledger.Currency = (*Issuance)(nil)

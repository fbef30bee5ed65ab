package balanceledger

import (
	"errors"
	"math/bits"
	"time"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/internal/observe"
)

const (
	operationDeposit  = "deposit"
	operationWithdraw = "withdraw"
)

// BalanceLedger mutates account balances through the Deposit and Withdraw transitions.
type BalanceLedger struct {
	store    ledger.AccountStore[ledger.Balance]
	currency ledger.Currency
	clock    func() time.Time
	observer observe.Observer
}

// New creates a BalanceLedger on top of the given store with optional configuration.
func New(store ledger.AccountStore[ledger.Balance], options ...Option) (*BalanceLedger, error) {
	if store == nil {
		return nil, ledger.ErrNilAccountStore
	}

	l := &BalanceLedger{
		store: store,
		clock: time.Now,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// BalanceOf returns the balance of who. An account without an entry reads as zero.
func (l *BalanceLedger) BalanceOf(who ledger.AccountID) ledger.Balance {
	balance, _ := l.store.Get(who)

	return balance
}

// Deposit credits amount to who and returns the new balance.
//
// The first deposit creates the entry. Fails with ledger.ErrInvalidAmount for a zero amount and with
// ledger.ErrOverflow if the new balance would exceed ledger.MaxBalance.
func (l *BalanceLedger) Deposit(who ledger.AccountID, amount ledger.Balance) (ledger.Balance, ledger.DomainEvents, error) {
	if amount == 0 {
		return l.reject(operationDeposit, who, amount, ledger.ErrInvalidAmount)
	}

	current, exists := l.store.Get(who)

	newBalance, carry := bits.Add64(uint64(current), uint64(amount), 0)
	if carry != 0 {
		return l.reject(operationDeposit, who, amount, ledger.ErrOverflow)
	}

	if err := l.settle(l.mint, l.burn, amount); err != nil {
		return l.reject(operationDeposit, who, amount, err)
	}

	if exists {
		if err := l.store.Mutate(who, func(ledger.Balance) ledger.Balance { return ledger.Balance(newBalance) }); err != nil {
			return l.reject(operationDeposit, who, amount, errors.Join(err, l.revert(l.burn, amount)))
		}
	} else {
		l.store.Insert(who, ledger.Balance(newBalance))
	}

	event := ledger.BuildDeposited(who, amount, ledger.Balance(newBalance), l.clock())
	l.succeeded(operationDeposit, who, amount, ledger.Balance(newBalance))

	return ledger.Balance(newBalance), ledger.DomainEvents{event}, nil
}

// Withdraw debits amount from who and returns the new balance.
//
// Preconditions are checked in order, the first failing one wins:
// ledger.ErrNoSuchOwner if who has no entry, ledger.ErrInvalidAmount for a zero amount,
// ledger.ErrInsufficientFunds if amount exceeds the balance.
// A balance withdrawn to zero stays stored as an explicit zero.
func (l *BalanceLedger) Withdraw(who ledger.AccountID, amount ledger.Balance) (ledger.Balance, ledger.DomainEvents, error) {
	current, exists := l.store.Get(who)
	if !exists {
		return l.reject(operationWithdraw, who, amount, ledger.ErrNoSuchOwner)
	}

	if amount == 0 {
		return l.reject(operationWithdraw, who, amount, ledger.ErrInvalidAmount)
	}

	if amount > current {
		return l.reject(operationWithdraw, who, amount, ledger.ErrInsufficientFunds)
	}

	if err := l.settle(l.burn, l.mint, amount); err != nil {
		return l.reject(operationWithdraw, who, amount, err)
	}

	newBalance := current - amount

	if err := l.store.Mutate(who, func(ledger.Balance) ledger.Balance { return newBalance }); err != nil {
		return l.reject(operationWithdraw, who, amount, errors.Join(err, l.revert(l.mint, amount)))
	}

	event := ledger.BuildWithdrawn(who, amount, newBalance, l.clock())
	l.succeeded(operationWithdraw, who, amount, newBalance)

	return newBalance, ledger.DomainEvents{event}, nil
}

type currencyOperation func(ledger.Balance) (ledger.Imbalance, error)

func (l *BalanceLedger) mint(amount ledger.Balance) (ledger.Imbalance, error) {
	return l.currency.Mint(amount)
}

func (l *BalanceLedger) burn(amount ledger.Balance) (ledger.Imbalance, error) {
	return l.currency.Burn(amount)
}

// settle applies operation to the configured currency, if any.
// An imbalance other than amount is undone with counterOperation.
func (l *BalanceLedger) settle(operation currencyOperation, counterOperation currencyOperation, amount ledger.Balance) error {
	if l.currency == nil {
		return nil
	}

	imbalance, err := operation(amount)
	if err != nil {
		return err
	}

	if imbalance.Peek() != amount {
		return errors.Join(ledger.ErrImbalanceMismatch, l.revert(counterOperation, imbalance.Peek()))
	}

	return nil
}

// revert undoes a settled amount. It returns nil without a currency or for a zero amount.
func (l *BalanceLedger) revert(counterOperation currencyOperation, amount ledger.Balance) error {
	if l.currency == nil || amount == 0 {
		return nil
	}

	_, err := counterOperation(amount)

	return err
}

func (l *BalanceLedger) reject(
	operation string,
	who ledger.AccountID,
	amount ledger.Balance,
	err error,
) (ledger.Balance, ledger.DomainEvents, error) {

	l.observer.Rejected(operation, err, observe.LogAttrAccountID, who.String(), observe.LogAttrAmount, uint64(amount))

	return 0, nil, err
}

func (l *BalanceLedger) succeeded(operation string, who ledger.AccountID, amount ledger.Balance, newBalance ledger.Balance) {
	l.observer.Succeeded(
		operation,
		observe.LogAttrAccountID, who.String(),
		observe.LogAttrAmount, uint64(amount),
		observe.LogAttrBalance, uint64(newBalance),
	)
	l.observer.BalanceChanged(operation, newBalance)
}

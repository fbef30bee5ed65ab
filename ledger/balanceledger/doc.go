// Package balanceledger implements the numeric balance transitions Deposit and Withdraw
// on top of a ledger.AccountStore[ledger.Balance].
//
// All preconditions are checked before the store is touched: a zero amount, a missing account,
// an overdraft or an overflowing addition are rejected with the matching ledger sentinel error and
// leave the stored balance unchanged. An optional ledger.Currency is settled after the checks and
// before the mutation, so a failing currency also leaves the store untouched.
package balanceledger
